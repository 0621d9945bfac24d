package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/config"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var configFile string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "hybridctl",
		Short: "Administer the hybrid content service",
		Long: `hybridctl inspects and purges the content cache, resolves hybrid views
and checks the content store, using the same configuration as the server.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (environment variables still apply)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewCacheCommand())
	rootCmd.AddCommand(NewRestaurantCommand())
	rootCmd.AddCommand(NewMenuCommand())
	rootCmd.AddCommand(NewContentCommand())

	return rootCmd
}

// loadConfig reads the --config file when given, otherwise the environment.
func loadConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(config.WithFile(path))
	}
	return config.LoadFromEnv()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
