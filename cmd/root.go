package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AlphaReposi/YTVV/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ytvv",
	Short: "YouTube discovery and comparison backend",
	Long: `ytvv serves the discovery API and exposes its operations on the command line.

Modes:
  ytvv             Run the HTTP server (default)
  ytvv serve       Run the HTTP server
  ytvv search      Print top search results for a title
  ytvv metadata    Print metadata for a video URL or ID
  ytvv titles      Print rephrased title suggestions
  ytvv similarity  Score two texts`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the JSON slog handler.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
