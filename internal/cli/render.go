package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/gradebook/internal/model"
)

// writeTable writes header and rows as aligned columns.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// newCollator orders names the way an Indonesian class list is read,
// ignoring case.
func newCollator() *collate.Collator {
	return collate.New(language.Indonesian, collate.IgnoreCase)
}

// sortByName sorts items by name for display. Equal names keep stored order.
func sortByName[T any](items []T, name func(T) string) {
	col := newCollator()
	slices.SortStableFunc(items, func(a, b T) int {
		return col.CompareString(name(a), name(b))
	})
}

// nameLookup maps IDs to display names, falling back to the ID itself for
// records that no longer exist.
type nameLookup map[string]string

func newNameLookup(ds *model.Dataset) nameLookup {
	n := make(nameLookup)
	for _, c := range ds.Classes {
		n[c.ID] = c.Name
	}
	for _, s := range ds.Subjects {
		n[s.ID] = s.Name
	}
	for _, c := range ds.Categories {
		n[c.ID] = c.Name
	}
	for _, s := range ds.Students {
		n[s.ID] = s.Name
	}
	return n
}

func (n nameLookup) get(id string) string {
	if id == "" {
		return "-"
	}
	if name, ok := n[id]; ok {
		return name
	}
	return id
}
