package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/scheduler"
	"github.com/MrSnakeDoc/marks/internal/sources/homepage"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as JSON (default bookmarks-<unixms>.json, - for stdout)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			data, err := b.Collection.ExportJSON()
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "" {
				out = collection.ExportFilename(time.Now())
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			printer(cmd).Success("exported %s to %s", plural(b.Collection.Len(), "bookmark"), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func newImportCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an export file into the collection (imported records go first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.Collection.ImportMerge(cmd.Context(), payload)
			if err != nil {
				return err
			}
			printer(cmd).Success("imported %s", plural(n, "bookmark"))
			return nil
		},
	}
}

func newImportHomepageCmd(rt *runtime) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "import-homepage <file>",
		Short: "Import a Homepage bookmarks.yaml or services.yaml, skipping URLs imported before",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := homepage.ParseKind(kind)
			if err != nil {
				return err
			}
			drafts, err := homepage.Drafts(args[0], k, homepage.NewMapper(nil))
			if err != nil {
				return err
			}

			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			importer := scheduler.NewHomepageImporter(args[0], k, b.Collection, b.Seen, rt.log, 0, nil)
			n, err := importer.Merge(cmd.Context(), drafts)
			if err != nil {
				return err
			}

			p := printer(cmd)
			if skipped := len(drafts) - n; skipped > 0 {
				p.Info("%s already imported", plural(skipped, "record"))
			}
			p.Success("imported %s from %s", plural(n, "bookmark"), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(homepage.KindBookmarks), "file layout: bookmarks or services")
	return cmd
}
