// Package commands implements the lineforge CLI's subcommands: each one
// opens a Session, resumes or creates a File's on-disk state, drives one or
// two Session operations, and checkpoints any mutation before exiting.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lineforge/lineforge/internal/session"
	"github.com/lineforge/lineforge/pkg/config"
	"github.com/lineforge/lineforge/pkg/observability"
	"github.com/lineforge/lineforge/pkg/version"
)

// Flags shared by every subcommand, bound once at the root command.
var (
	storeDir   string
	eol        string
	configPath string
	cacheSize  string
	debug      bool
)

// RegisterPersistentFlags installs the flags every subcommand reads.
func RegisterPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&storeDir, "store", ".lineforge", "checkpoint storage directory")
	root.PersistentFlags().StringVar(&eol, "eol", "\n", "line terminator used when importing or resuming a file")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a lineforge config file")
	root.PersistentFlags().StringVar(&cacheSize, "cache-size", "", "render cache budget (e.g. \"64MB\", \"1GiB\"); overrides config")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging to stderr")
}

// openSession loads configuration, wires observability, and builds a fresh
// Session for one command invocation. The Session itself holds no state
// across processes; durability comes entirely from the checkpoint each
// command reads or writes.
func openSession() (*session.Session, observability.Providers, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, observability.Providers{}, err
	}

	providers, err := initObservability()
	if err != nil {
		return nil, observability.Providers{}, err
	}

	sess, err := session.New(cfg, providers)
	if err != nil {
		return nil, providers, fmt.Errorf("open session: %w", err)
	}

	return sess, providers, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if storeDir != "" {
		cfg.Storage.Directory = storeDir
	}

	if eol != "" {
		cfg.Timeline.DefaultEOL = eol
	}

	if cacheSize != "" {
		parsed, err := humanize.ParseBytes(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("invalid cache-size %q: %w", cacheSize, err)
		}

		if parsed > math.MaxInt {
			return nil, fmt.Errorf("cache-size %q exceeds addressable memory", cacheSize)
		}

		cfg.Cache.MaxBytes = int(parsed)
	}

	return cfg, nil
}

// initObservability builds a fresh provider set per invocation, since a
// CLI command is a single process lifetime.
func initObservability() (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Mode = observability.ModeCLI

	if debug {
		cfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(cfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}

// shutdown flushes telemetry; failures are logged, not fatal, since a CLI
// command's real result has already been printed by the time this runs.
func shutdown(providers observability.Providers) {
	if providers.Shutdown == nil {
		return
	}

	if err := providers.Shutdown(context.Background()); err != nil && providers.Logger != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// resumeFile restores filePath's checkpointed session state, returning its
// FileId. Every subcommand but "load" and "version" starts here.
func resumeFile(ctx context.Context, sess *session.Session, filePath string) (string, error) {
	fileID, err := sess.Resume(ctx, filePath, eol)
	if err != nil {
		return "", fmt.Errorf("resume %s (run \"lineforge load\" first?): %w", filePath, err)
	}

	return fileID, nil
}

// checkpointAndPrintText persists fileID's state and prints blockID's
// current text, the common tail of every index/timestamp mutation.
func checkpointAndPrintText(ctx context.Context, sess *session.Session, fileID, blockID string, w io.Writer) error {
	if err := sess.Checkpoint(ctx, fileID); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	text, err := sess.GetText(ctx, blockID, nil)
	if err != nil {
		return fmt.Errorf("get text: %w", err)
	}

	fmt.Fprintln(w, text)

	return nil
}
