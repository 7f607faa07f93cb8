package repo

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/portforge/archplan/pkg/keyword"
)

// Repository answers metadata queries about a fully-populated package index.
//
// Implementations are pure and deterministic: the same query always returns
// the same answer within one run, with no side effects. Match imposes no
// ordering guarantee beyond descending version. Query failures are
// considered exceptional; callers treat them as fatal rather than retrying.
type Repository interface {
	// Match resolves a dependency atom to the package versions matching
	// it, in descending version order. Blocker atoms resolve to the empty
	// set. Visibility and keyword-presence filtering is the caller's job.
	Match(atom string) ([]CPV, error)

	// Keywords returns the full keyword set of a release. Callers must
	// not modify the returned set.
	Keywords(cpv CPV) (keyword.Set, error)

	// Slot returns the release's slot label.
	Slot(cpv CPV) (string, error)

	// DependencyAtoms returns the release's build, runtime and
	// post-runtime dependency specifiers, consolidated and de-duplicated
	// in first-occurrence order.
	DependencyAtoms(cpv CPV) ([]string, error)

	// Visible reports whether the release is unmasked.
	Visible(cpv CPV) (bool, error)
}

// Open loads a metadata snapshot into an in-memory index, choosing the
// backend by file extension: .db/.sqlite/.sqlite3 open a SQLite database,
// anything else is read as TOML.
func Open(path string) (*Index, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return LoadTOML(path)
	}
}

// SortVersionsDesc sorts cpvs in place by descending version. All entries
// are expected to share one category/name.
func SortVersionsDesc(cpvs []CPV) {
	slices.SortStableFunc(cpvs, func(a, b CPV) int {
		return CompareVersions(b.Version, a.Version)
	})
}
