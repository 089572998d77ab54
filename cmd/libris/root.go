package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/libris"
	"github.com/aretw0/libris/pkg/core"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dataPath   string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libris [data-file]",
	Short: "Student library management: books, students and loans",
	Long: `libris keeps a catalog of books, a roster of students and a ledger of
loans in a single JSON file. Every change is saved atomically.

Run without a command to open the interactive menu.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runInteractive(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to the data file (or a directory holding library_data.json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
}

// openService builds the service from flags, configuration and environment and
// loads the data file. A broken data file is reported and the library starts
// empty.
func openService(ctx context.Context, argPath string) *core.Service {
	cfg, err := libris.LoadConfig(configPath)
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	cliPath := dataPath
	if cliPath == "" {
		cliPath = argPath
	}
	path := libris.ResolveDataPath(cfg, cliPath)

	svc, err := libris.New(path,
		libris.WithConfig(cfg),
		libris.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Failed to initialize library", err)
	}

	if err := svc.Load(ctx); err != nil {
		slog.Warn("data file could not be loaded, starting with an empty library", "path", path, "error", err)
	}
	return svc
}

// commit saves after a successful mutation and exits non-zero when the save
// fails.
func commit(ctx context.Context, svc *core.Service) {
	if err := saveChange(ctx, svc, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// saveChange persists the applied mutation. Saves replace the file atomically,
// so on failure the data file still holds the previous state and the user is
// told the change was not kept.
func saveChange(ctx context.Context, svc *core.Service, w io.Writer) error {
	err := svc.Save(ctx)
	if err != nil {
		fmt.Fprintf(w, "Change not saved, the data file is unchanged: %v\n", err)
	}
	return err
}
