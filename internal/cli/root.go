// Package cli holds the cobra command tree of the marks binary.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/app"
	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// runtime is shared by the subcommands of one root command
type runtime struct {
	logLevel string
	cfg      *config.Config
	log      logger.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "marks",
		Short: "Bookmark collection with automatic tagging",
		Long: `marks keeps a collection of bookmarks tagged from their URL and title.

It serves the HTTP API used by the browser extension and manages the same
collection from the command line. Storage is selected with MARKS_STORE
(redis, file or memory).

Example usage:
  marks serve                               # Run the API and background jobs
  marks save https://go.dev --tags go,docs  # Save a bookmark
  marks list --tag docs                     # Filter by tag
  marks export -o backup.json               # Export the collection`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "warn", "log level for CLI commands (serve uses MARKS_LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(rt),
		newSaveCmd(rt),
		newListCmd(rt),
		newTagsCmd(rt),
		newDeleteCmd(rt),
		newTagCmd(rt),
		newExportCmd(rt),
		newImportCmd(rt),
		newImportHomepageCmd(rt),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (rt *runtime) config() (*config.Config, error) {
	if rt.cfg != nil {
		return rt.cfg, nil
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	rt.cfg = cfg
	return cfg, nil
}

// backend opens the configured store and loads the collection.
// The caller closes it.
func (rt *runtime) backend(ctx context.Context) (*app.Backend, error) {
	cfg, err := rt.config()
	if err != nil {
		return nil, err
	}
	if rt.log == nil {
		rt.log = logger.New(rt.logLevel, cfg.PrettyLog)
	}

	b, err := app.OpenBackend(ctx, cfg, rt.log)
	if err != nil {
		return nil, err
	}
	if err := b.Collection.Load(ctx); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return b, nil
}

func printer(cmd *cobra.Command) *Printer {
	return NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
