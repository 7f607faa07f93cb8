package plan

import (
	"testing"

	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

func TestConsolidate(t *testing.T) {
	pkgB := repo.CPV{Category: "cat", Name: "pkgb", Version: "2.0"}
	other := repo.CPV{Category: "cat", Name: "other", Version: "1.0"}

	items := []Item{
		{IsBlock: true, Entries: []Entry{
			{Pkg: pkgB, Keywords: keyword.NewSet("amd64")},
		}},
		{Text: ""},
		{IsBlock: true, Entries: []Entry{
			{Pkg: other, Keywords: keyword.NewSet("arm")},
			{Pkg: pkgB, Keywords: keyword.NewSet("x86")},
		}},
	}

	out := Consolidate(items)
	if len(out) != 3 {
		t.Fatalf("Consolidate() kept %d items, want 3", len(out))
	}

	// First occurrence of pkgB holds the union of both requests.
	first := out[0].Entries
	if len(first) != 1 || !first[0].Keywords.Equal(keyword.NewSet("amd64", "x86")) {
		t.Errorf("first block = %+v, want pkgb with [amd64 x86]", first)
	}

	// Pass-through lines survive in place.
	if out[1].IsBlock {
		t.Error("pass-through item became a block")
	}

	// The later occurrence of pkgB is dropped; other is untouched.
	second := out[2].Entries
	if len(second) != 1 || second[0].Pkg != other {
		t.Errorf("second block = %+v, want only cat/other-1.0", second)
	}
	if !second[0].Keywords.Equal(keyword.NewSet("arm")) {
		t.Errorf("other keywords = %v, want [arm]", second[0].Keywords.Sorted())
	}
}

func TestConsolidateKeepsDistinctVersions(t *testing.T) {
	v1 := repo.CPV{Category: "cat", Name: "pkg", Version: "1.0"}
	v2 := repo.CPV{Category: "cat", Name: "pkg", Version: "2.0"}

	items := []Item{
		{IsBlock: true, Entries: []Entry{{Pkg: v1, Keywords: keyword.NewSet("amd64")}}},
		{IsBlock: true, Entries: []Entry{{Pkg: v2, Keywords: keyword.NewSet("x86")}}},
	}

	out := Consolidate(items)
	if len(out[0].Entries) != 1 || len(out[1].Entries) != 1 {
		t.Fatalf("Consolidate() merged distinct versions: %+v", out)
	}
	if !out[0].Entries[0].Keywords.Equal(keyword.NewSet("amd64")) {
		t.Error("v1 keywords changed")
	}
	if !out[1].Entries[0].Keywords.Equal(keyword.NewSet("x86")) {
		t.Error("v2 keywords changed")
	}
}
