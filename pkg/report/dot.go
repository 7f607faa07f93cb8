package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/portforge/archplan/pkg/plan"
	"github.com/portforge/archplan/pkg/repo"
)

// ToDOT converts a plan's dependency edges to Graphviz DOT form. Node
// labels include the wanted keywords when the plan recorded an entry for
// the node; edge direction follows dependency direction (consumer to
// dependency).
func ToDOT(res *plan.Result) string {
	wanted := make(map[repo.CPV]string)
	nodes := make(map[repo.CPV]bool)
	var order []repo.CPV

	add := func(cpv repo.CPV) {
		if !nodes[cpv] {
			nodes[cpv] = true
			order = append(order, cpv)
		}
	}
	for _, item := range res.Items {
		for _, e := range item.Entries {
			add(e.Pkg)
			wanted[e.Pkg] = e.Keywords.String()
		}
	}
	for _, e := range res.Edges {
		add(e.From)
		add(e.To)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph archplan {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for _, cpv := range order {
		label := cpv.String()
		if kws, ok := wanted[cpv]; ok && kws != "" {
			label += "\n" + kws
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", cpv.String(), label)
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

// WriteDOT writes the DOT rendering of res to w.
func WriteDOT(w io.Writer, res *plan.Result) error {
	_, err := io.WriteString(w, ToDOT(res))
	return err
}
