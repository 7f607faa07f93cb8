// Package repo provides the package-repository collaborator: cpv identities,
// dependency atoms, version ordering, and queryable metadata indexes.
//
// Everything here is a read-only snapshot. The planner queries it; nothing
// ever mutates package metadata.
package repo

import (
	"strconv"
	"strings"
)

// CPV is the category/package/version identity of a single package release.
type CPV struct {
	Category string
	Name     string
	Version  string
}

// String renders the canonical "category/name-version" form.
func (c CPV) String() string {
	return c.Category + "/" + c.Name + "-" + c.Version
}

// CP returns the versionless "category/name" form.
func (c CPV) CP() string {
	return c.Category + "/" + c.Name
}

// IsZero reports whether c is the zero identity.
func (c CPV) IsZero() bool {
	return c.Category == "" && c.Name == "" && c.Version == ""
}

// ParseCPV splits a fully-qualified package-version identity. The second
// return is false when s has no syntactically valid version component, i.e.
// when s is a bare package specifier rather than a cpv.
func ParseCPV(s string) (CPV, bool) {
	cat, rest, ok := strings.Cut(s, "/")
	if !ok || cat == "" || rest == "" || strings.Contains(rest, "/") {
		return CPV{}, false
	}

	// The version is the last hyphen-separated token that parses as a
	// version, optionally followed by an "-rN" revision token.
	tokens := strings.Split(rest, "-")
	if len(tokens) < 2 {
		return CPV{}, false
	}

	last := len(tokens) - 1
	if isRevisionToken(tokens[last]) && last >= 2 && isBaseVersion(tokens[last-1]) {
		return CPV{
			Category: cat,
			Name:     strings.Join(tokens[:last-1], "-"),
			Version:  tokens[last-1] + "-" + tokens[last],
		}, true
	}
	if isBaseVersion(tokens[last]) {
		return CPV{
			Category: cat,
			Name:     strings.Join(tokens[:last], "-"),
			Version:  tokens[last],
		}, true
	}
	return CPV{}, false
}

func isRevisionToken(s string) bool {
	if len(s) < 2 || s[0] != 'r' {
		return false
	}
	return allDigits(s[1:])
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// version is the parsed form used for ordering. The grammar is
// N(.N)*[letter](_suffixN?)*(-rN)?.
type version struct {
	nums     []string
	letter   byte
	suffixes []suffix
	rev      int
}

type suffix struct {
	rank int
	num  int
}

// Suffix ranks in ascending precedence. The absent suffix sorts between
// _rc and _p.
const (
	suffixAlpha = iota
	suffixBeta
	suffixPre
	suffixRC
	suffixNone
	suffixP
)

var suffixRanks = map[string]int{
	"alpha": suffixAlpha,
	"beta":  suffixBeta,
	"pre":   suffixPre,
	"rc":    suffixRC,
	"p":     suffixP,
}

func parseVersion(s string) (version, bool) {
	var v version

	if base, rev, ok := strings.Cut(s, "-"); ok {
		if !isRevisionToken(rev) {
			return version{}, false
		}
		v.rev, _ = strconv.Atoi(rev[1:])
		s = base
	}

	parts := strings.Split(s, "_")
	base := parts[0]
	for _, suf := range parts[1:] {
		name := strings.TrimRight(suf, "0123456789")
		rank, ok := suffixRanks[name]
		if !ok {
			return version{}, false
		}
		num := 0
		if digits := suf[len(name):]; digits != "" {
			num, _ = strconv.Atoi(digits)
		}
		v.suffixes = append(v.suffixes, suffix{rank: rank, num: num})
	}

	v.nums = strings.Split(base, ".")
	lastIdx := len(v.nums) - 1
	last := v.nums[lastIdx]
	if last != "" && last[len(last)-1] >= 'a' && last[len(last)-1] <= 'z' {
		v.letter = last[len(last)-1]
		v.nums[lastIdx] = last[:len(last)-1]
	}
	for _, n := range v.nums {
		if !allDigits(n) {
			return version{}, false
		}
	}
	return v, true
}

func isBaseVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	_, ok := parseVersion(s)
	return ok
}

// CompareVersions orders two version strings: negative when a < b, zero when
// equal, positive when a > b. Unparseable versions fall back to plain string
// comparison so ordering stays total.
func CompareVersions(a, b string) int {
	va, oka := parseVersion(a)
	vb, okb := parseVersion(b)
	if !oka || !okb {
		return strings.Compare(a, b)
	}

	for i := 0; i < len(va.nums) || i < len(vb.nums); i++ {
		switch {
		case i >= len(va.nums):
			return -1
		case i >= len(vb.nums):
			return 1
		}
		if c := compareComponent(va.nums[i], vb.nums[i], i == 0); c != 0 {
			return c
		}
	}

	if va.letter != vb.letter {
		if va.letter < vb.letter {
			return -1
		}
		return 1
	}

	for i := 0; i < len(va.suffixes) || i < len(vb.suffixes); i++ {
		sa := suffix{rank: suffixNone}
		sb := suffix{rank: suffixNone}
		if i < len(va.suffixes) {
			sa = va.suffixes[i]
		}
		if i < len(vb.suffixes) {
			sb = vb.suffixes[i]
		}
		if sa.rank != sb.rank {
			return sa.rank - sb.rank
		}
		if sa.num != sb.num {
			return sa.num - sb.num
		}
	}

	return va.rev - vb.rev
}

// compareComponent follows the repository convention: the first component is
// always numeric; later components with a leading zero compare as fractional
// digit strings (so 1.01 < 1.1), the rest numerically.
func compareComponent(a, b string, first bool) int {
	if !first && (strings.HasPrefix(a, "0") || strings.HasPrefix(b, "0")) {
		a = strings.TrimRight(a, "0")
		b = strings.TrimRight(b, "0")
		return strings.Compare(a, b)
	}
	ai, _ := strconv.Atoi(a)
	bi, _ := strconv.Atoi(b)
	return ai - bi
}

// stripRevision drops a trailing "-rN" from a version string.
func stripRevision(ver string) string {
	if base, rev, ok := strings.Cut(ver, "-"); ok && isRevisionToken(rev) {
		return base
	}
	return ver
}
