// Package keyword models per-architecture readiness tags ("keywords") and
// the set operations the planner is built on.
//
// A keyword has a stable form ("amd64") and an unstable form ("~amd64").
// Both forms are distinct set members: holding stable amd64 does not mean
// the set also holds ~amd64. The stable form does, however, presuppose that
// unstable validation happened at some point, which is what [Wanted]
// encodes in stable mode.
package keyword

import (
	"maps"
	"slices"
	"strings"
)

// UnstablePrefix marks the unstable form of an architecture keyword.
const UnstablePrefix = "~"

// Set is an unordered collection of keyword labels.
type Set map[string]struct{}

// NewSet builds a Set from the given labels.
func NewSet(kws ...string) Set {
	s := make(Set, len(kws))
	for _, kw := range kws {
		s[kw] = struct{}{}
	}
	return s
}

// ParseSet splits a whitespace-separated keyword string into a Set.
// Empty input yields an empty, non-nil Set.
func ParseSet(raw string) Set {
	return NewSet(strings.Fields(raw)...)
}

// Has reports whether kw is a member.
func (s Set) Has(kw string) bool {
	_, ok := s[kw]
	return ok
}

// Add inserts kw into the set.
func (s Set) Add(kw string) { s[kw] = struct{}{} }

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Union returns a new Set holding every member of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

// Intersect returns a new Set holding the members present in both s and other.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for kw := range s {
		if other.Has(kw) {
			out.Add(kw)
		}
	}
	return out
}

// Equal reports whether s and other hold exactly the same members.
func (s Set) Equal(other Set) bool {
	return maps.Equal(s, other)
}

// Sorted returns the members in lexicographic order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// String renders the members sorted and space-separated, for logs.
func (s Set) String() string {
	return strings.Join(s.Sorted(), " ")
}

// IsUnstable reports whether kw is in unstable form.
func IsUnstable(kw string) bool {
	return strings.HasPrefix(kw, UnstablePrefix)
}

// Unstable returns the unstable form of kw. Idempotent.
func Unstable(kw string) string {
	if IsUnstable(kw) {
		return kw
	}
	return UnstablePrefix + kw
}

// Stable returns the stable form of kw. Idempotent.
func Stable(kw string) string {
	return strings.TrimPrefix(kw, UnstablePrefix)
}

// ToUnstable maps every member of s to its unstable form. Idempotent.
func ToUnstable(s Set) Set {
	out := make(Set, len(s))
	for kw := range s {
		out.Add(Unstable(kw))
	}
	return out
}

// ToStable maps every member of s to its stable form. Idempotent.
func ToStable(s Set) Set {
	out := make(Set, len(s))
	for kw := range s {
		out.Add(Stable(kw))
	}
	return out
}

// Wanted computes the subset of target worth requesting for a package whose
// own keywords are current.
//
// Outside stable mode the target passes through unchanged: a keywording
// request has no precondition. In stable mode a keyword is only wanted when
// its unstable counterpart is already present in current, encoding the
// policy that an arch is promoted to stable only after it has been
// exercised unstable.
func Wanted(current, target Set, stable bool) Set {
	if !stable {
		return target.Clone()
	}
	wanted := make(Set)
	for kw := range target {
		if !current.Has(Unstable(kw)) {
			continue
		}
		wanted.Add(kw)
	}
	return wanted
}
