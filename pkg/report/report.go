// Package report renders computed plans: the aligned plain-text table on
// stdout and an optional Graphviz export of the walked dependency graph.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/portforge/archplan/pkg/plan"
)

// Render writes the plan as an aligned table. Column one is the package
// identifier, padded to the longest identifier in the plan; one column
// follows per distinct keyword, sorted lexicographically, each cell holding
// the keyword when that row wants it and an equally wide blank otherwise.
//
// Pass-through lines reappear at their original relative position, with one
// exception: when dependency checking is on, a blank line directly after a
// block of exactly one entry is dropped, so a trivial block is not visually
// separated from its neighbor.
func Render(w io.Writer, items []plan.Item, checkDeps bool) error {
	maxLen := 0
	kwSeen := make(map[string]struct{})
	for _, item := range items {
		for _, e := range item.Entries {
			if l := len(e.Display()); l > maxLen {
				maxLen = l
			}
			for kw := range e.Keywords {
				kwSeen[kw] = struct{}{}
			}
		}
	}
	columns := slices.Sorted(maps.Keys(kwSeen))

	rowsSinceBreak := 0
	for _, item := range items {
		if !item.IsBlock {
			if checkDeps && rowsSinceBreak == 1 && strings.TrimSpace(item.Text) == "" {
				rowsSinceBreak = 0
				continue
			}
			rowsSinceBreak = 0
			if _, err := fmt.Fprintln(w, item.Text); err != nil {
				return err
			}
			continue
		}
		for _, e := range item.Entries {
			rowsSinceBreak++
			if _, err := fmt.Fprintln(w, formatRow(e, maxLen, columns)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatRow(e plan.Entry, width int, columns []string) string {
	fields := make([]string, 0, len(columns)+1)
	fields = append(fields, pad(e.Display(), width))
	for _, kw := range columns {
		if e.Keywords.Has(kw) {
			fields = append(fields, kw)
		} else {
			fields = append(fields, strings.Repeat(" ", len(kw)))
		}
	}
	return strings.Join(fields, " ")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
