package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

func newListCmd(rt *runtime) *cobra.Command {
	var query, tag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks, optionally searched (--q) or filtered by tag (--tag)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			var list []domain.Bookmark
			if strings.TrimSpace(tag) != "" {
				list = b.Collection.FilterByTag(tag)
			} else {
				list = b.Collection.Search(query)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return printer(cmd).Bookmarks(list)
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "case-insensitive search over title, url and tags")
	cmd.Flags().StringVar(&tag, "tag", "", "exact tag filter, wins over --q")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newTagsCmd(rt *runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show the most used tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			if !cmd.Flags().Changed("limit") {
				limit = rt.cfg.TagLimit
			}
			return printer(cmd).Tags(b.Collection.TagFrequencies(limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of tags (default MARKS_TAG_LIMIT)")
	return cmd
}
