package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ulancrm/internal/crm"
	"github.com/ppiankov/ulancrm/internal/pipeline"
)

var (
	outFile         string
	describeTimeout time.Duration
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <id>",
	Short: "Print one ULAN record as Linked Art",
	Long: `Describe fetches a single ULAN record, maps it to Linked Art and prints
the JSON-LD document.

Example:
  ulancrm describe 500115493
  ulancrm describe 500115493 --out rembrandt.json --sources`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the document to a file instead of stdout")
	describeCmd.Flags().DurationVar(&describeTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), describeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	entity, err := p.Describe(ctx, args[0])
	if err != nil {
		return fmt.Errorf("describe %s: %w", args[0], err)
	}

	data, err := crm.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if outFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outFile)
	return nil
}
