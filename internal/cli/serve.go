package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ulancrm/internal/metric"
	"github.com/ppiankov/ulancrm/internal/pipeline"
	"github.com/ppiankov/ulancrm/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Linked Art documents over HTTP",
	Long: `Serve starts an HTTP server answering GET /<ulan id> with the record
expressed as Linked Art JSON-LD.

Also exposed:
  GET /health    liveness, cached record and document counts
  GET /metrics   Prometheus metrics

Example:
  ulancrm serve
  ulancrm serve --addr :9000 --sources`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metric.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	logger := slog.Default()
	p, err := pipeline.NewPipeline(cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(p,
		server.WithGatherer(reg),
		server.WithLogger(logger),
		server.WithAccessLog(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
