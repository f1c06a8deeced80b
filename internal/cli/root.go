package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ulancrm/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

const envPrefix = "ULANCRM"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ulancrm",
	Short: "ulancrm - ULAN authority records as Linked Art",
	Long: `ulancrm fetches person and group records from the Getty Union List of
Artist Names (ULAN) and re-expresses them in the CIDOC-CRM based
Linked Art model.

Identifiers are ULAN numbers, e.g. 500115493 for Rembrandt van Rijn.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ulancrm " + Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ulancrm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("sources", false, "attach cited sources to names and notes")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("mapping.sources", rootCmd.PersistentFlags().Lookup("sources"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig layers the config file and ULANCRM_* variables over the defaults
func initConfig() {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewReader(defaultsYAML())); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".ulancrm"))
		viper.SetConfigName("config")
	}

	// ULANCRM_HTTP_TIMEOUT overrides http.timeout
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func defaultsYAML() []byte {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil
	}
	return data
}

// loadConfig decodes the merged settings
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setupLogger() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
