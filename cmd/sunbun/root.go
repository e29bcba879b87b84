package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunbun/assistant/internal/cli"
	"github.com/sunbun/assistant/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sunbun",
	Short: "SunBun Solar customer support assistant",
	Long:  `SunBun runs the solar customer support assistant: an HTTP/SSE API, an MCP server, or an interactive terminal chat.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for persistence (overrides config)")
	rootCmd.PersistentFlags().String("dataset", "", "Path to a dataset file (overrides the embedded one)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadApp resolves config (file, env, then flags) and wires the application.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if redis, _ := cmd.Flags().GetString("redis"); redis != "" {
		cfg.Redis.Addr = redis
	}
	if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
		cfg.Dataset.Path = dataset
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format, err := cmd.Flags().GetString("log-format"); err == nil && format != "" {
		cfg.Logging.Format = format
	}

	return cli.NewApp(cfg)
}
