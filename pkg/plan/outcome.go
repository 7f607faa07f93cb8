package plan

import (
	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// OutcomeKind tags the result of a selection step. The non-Selected kinds
// are all "skip, continue" conditions: they are logged, never raised as
// errors, and never abort a batch.
type OutcomeKind int

const (
	// NoReference: no version anywhere carries relevant keywords; the
	// caller falls back to the package's own unstable labels.
	NoReference OutcomeKind = iota
	// AlreadyMaximal: the package already has the best known coverage.
	AlreadyMaximal
	// AlreadySatisfied: a dependency candidate already carries every
	// wanted keyword; nothing to propagate for its atom.
	AlreadySatisfied
	// NoCandidate: an atom resolved to no usable version (blockers,
	// masked-only, keywordless).
	NoCandidate
	// Selected: a concrete version was chosen, with its keyword payload.
	Selected
)

// String returns the kind's name for logs.
func (k OutcomeKind) String() string {
	switch k {
	case NoReference:
		return "no-reference"
	case AlreadyMaximal:
		return "already-maximal"
	case AlreadySatisfied:
		return "already-satisfied"
	case NoCandidate:
		return "no-candidate"
	case Selected:
		return "selected"
	}
	return "unknown"
}

// Outcome is the tagged result of gap computation and candidate selection.
// Version and Keywords are only meaningful for Selected: the chosen release
// (zero for gap computation, which scores the seed itself) and the keyword
// set it contributes.
type Outcome struct {
	Kind     OutcomeKind
	Version  repo.CPV
	Keywords keyword.Set
}
