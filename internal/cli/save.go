package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/capture"
)

func newSaveCmd(rt *runtime) *cobra.Command {
	var title, tags string

	cmd := &cobra.Command{
		Use:   "save <url>",
		Short: "Save a bookmark, tagging it automatically unless --tags is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			tab := capture.StaticTab{URL: strings.TrimSpace(args[0]), Title: title}
			saved, err := b.Capture.Manual(cmd.Context(), tab, tags)
			if err != nil {
				return err
			}

			p := printer(cmd)
			if saved == nil {
				p.Warn("nothing to save")
				return nil
			}
			p.Success("saved %d [%s]", saved.ID, strings.Join(saved.Tags, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "page title (looked up when empty and MARKS_TITLE_LOOKUP is on)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags, replaces the automatic ones")
	return cmd
}
