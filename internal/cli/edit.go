package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			before := b.Collection.Len()
			if err := b.Collection.DeleteByID(cmd.Context(), id); err != nil {
				return err
			}

			p := printer(cmd)
			if b.Collection.Len() == before {
				p.Warn("no bookmark with id %d", id)
				return nil
			}
			p.Success("deleted %d", id)
			return nil
		},
	}
}

func newTagCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> <tags>",
		Short: `Replace the tags of a bookmark ("go, web")`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			b, err := rt.backend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			updated, found, err := b.Collection.EditTags(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}

			p := printer(cmd)
			if !found {
				p.Warn("no bookmark with id %d", id)
				return nil
			}
			p.Success("%d tagged [%s]", id, strings.Join(updated.Tags, ", "))
			return nil
		},
	}
}
