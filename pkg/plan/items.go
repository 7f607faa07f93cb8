package plan

import (
	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// Entry is the atomic unit of output: one package release and the keywords
// requested for it.
type Entry struct {
	Pkg      repo.CPV
	Slot     string // filled by the append-slots pass, "" otherwise
	Keywords keyword.Set
}

// Display returns the identifier printed in the report.
func (e Entry) Display() string {
	if e.Slot != "" {
		return e.Pkg.String() + ":" + e.Slot
	}
	return e.Pkg.String()
}

// equal reports verbatim equality: same release, same keyword set. Used by
// the propagator's duplicate check.
func (e Entry) equal(other Entry) bool {
	return e.Pkg == other.Pkg && e.Keywords.Equal(other.Keywords)
}

// Item is one element of the final plan: either a pass-through line carried
// from the seed list, or a block of propagation entries produced by one
// seed package.
type Item struct {
	Text    string // pass-through line, valid when IsBlock is false
	Entries []Entry
	IsBlock bool
}

// Edge records one discovered dependency relation, for graph export.
type Edge struct {
	From repo.CPV
	To   repo.CPV
}

// Result is a computed plan: the ordered items plus the dependency edges
// walked while producing them.
type Result struct {
	Items []Item
	Edges []Edge
}
