package repo

import (
	"strings"

	"github.com/portforge/archplan/pkg/errors"
)

// Atom is a dependency specifier: an optional blocker marker and version
// operator, a category/name pair, and optional version and slot constraints.
//
// Use-conditional brackets and repository qualifiers are stripped during
// parsing; dependency atoms are treated as strict, the way the planner's
// consumers declare them.
type Atom struct {
	Raw      string
	Blocker  bool
	Op       string // "", "=", "~", "<", "<=", ">", ">="
	Category string
	Name     string
	Version  string
	Glob     bool   // "=cat/pkg-1.2*" prefix match
	Slot     string // bare slot label, "" when unconstrained
}

// CP returns the category/name part of the atom.
func (a Atom) CP() string {
	return a.Category + "/" + a.Name
}

// ParseAtom parses a dependency specifier. A specifier without a
// category/name separator is not a real dependency atom and yields an error.
func ParseAtom(raw string) (Atom, error) {
	a := Atom{Raw: raw}
	s := raw

	for strings.HasPrefix(s, "!") {
		a.Blocker = true
		s = s[1:]
	}

	if i := strings.Index(s, "["); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		a.Slot = strings.TrimRight(s[i+1:], "=*")
		s = s[:i]
	}

	for _, op := range []string{">=", "<=", ">", "<", "~", "="} {
		if strings.HasPrefix(s, op) {
			a.Op = op
			s = s[len(op):]
			break
		}
	}

	if !strings.Contains(s, "/") {
		return Atom{}, errors.New(errors.ErrCodeInvalidAtom, "not a dependency atom: %q", raw)
	}

	if a.Op == "" {
		cat, name, _ := strings.Cut(s, "/")
		if cat == "" || name == "" {
			return Atom{}, errors.New(errors.ErrCodeInvalidAtom, "malformed atom: %q", raw)
		}
		a.Category, a.Name = cat, name
		return a, nil
	}

	if a.Op == "=" && strings.HasSuffix(s, "*") {
		a.Glob = true
		s = strings.TrimSuffix(s, "*")
	}
	cpv, ok := ParseCPV(s)
	if !ok {
		return Atom{}, errors.New(errors.ErrCodeInvalidAtom, "operator atom without version: %q", raw)
	}
	a.Category, a.Name, a.Version = cpv.Category, cpv.Name, cpv.Version
	return a, nil
}

// MatchesVersion reports whether a package version satisfies the atom's
// version constraint. Slot constraints are checked by the index, which knows
// each release's slot.
func (a Atom) MatchesVersion(ver string) bool {
	switch a.Op {
	case "":
		return true
	case "=":
		if a.Glob {
			return strings.HasPrefix(ver, a.Version)
		}
		return CompareVersions(ver, a.Version) == 0
	case "~":
		return CompareVersions(stripRevision(ver), a.Version) == 0
	case ">=":
		return CompareVersions(ver, a.Version) >= 0
	case "<=":
		return CompareVersions(ver, a.Version) <= 0
	case ">":
		return CompareVersions(ver, a.Version) > 0
	case "<":
		return CompareVersions(ver, a.Version) < 0
	}
	return false
}
