package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

const maxTitleWidth = 48

// Printer writes status lines and tables for the CLI
type Printer struct {
	out io.Writer
	err io.Writer
}

func NewPrinter(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

func (p *Printer) Success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// Bookmarks renders records newest first, the way they are stored
func (p *Printer) Bookmarks(list []domain.Bookmark) error {
	if len(list) == 0 {
		p.Info("no bookmarks")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			truncate(b.Title, maxTitleWidth),
			b.URL,
			strings.Join(b.Tags, ", "),
			savedDate(b.Timestamp),
		})
	}

	t := newTable(p.out)
	t.Header([]string{"ID", "Title", "URL", "Tags", "Saved"})
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// Tags renders the tag-frequency index
func (p *Printer) Tags(tags []domain.TagCount) error {
	if len(tags) == 0 {
		p.Info("no tags")
		return nil
	}

	rows := make([][]string, 0, len(tags))
	for _, tc := range tags {
		rows = append(rows, []string{tc.Tag, strconv.Itoa(tc.Count)})
	}

	t := newTable(p.out)
	t.Header([]string{"Tag", "Count"})
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// savedDate keeps the date part of an ISO-8601 timestamp
func savedDate(ts string) string {
	if d, _, ok := strings.Cut(ts, "T"); ok {
		return d
	}
	return ts
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
