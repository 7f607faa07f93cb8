package plan

import (
	"context"
	"testing"

	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

func entryCPVs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Pkg.String()
	}
	return out
}

func TestPropagateOrdering(t *testing.T) {
	// top depends on mid, mid depends on leaf. The report must list a
	// package only after everything it depends on.
	p := testPlanner(t, Config{Profile: testProfile(true), CheckDependencies: true},
		repo.Package{CPV: "app/top-1.0", Keywords: "amd64 ~arm", Depend: "dev/mid"},
		repo.Package{CPV: "dev/mid-1.0", Keywords: "~arm ~amd64", Depend: "dev/leaf"},
		repo.Package{CPV: "dev/leaf-1.0", Keywords: "~arm"},
	)

	seed := mustCPV(t, "app/top-1.0")
	visited := map[repo.CPV]bool{seed: true}
	var edges []Edge
	entries, err := p.propagate(context.Background(), seed, keyword.NewSet("arm"), visited, &edges)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"dev/leaf-1.0", "dev/mid-1.0", "app/top-1.0"}
	got := entryCPVs(entries)
	if len(got) != len(want) {
		t.Fatalf("propagate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("propagate()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if len(edges) != 2 {
		t.Fatalf("edges = %v, want 2", edges)
	}
	if edges[0].From.CP() != "app/top" || edges[0].To.CP() != "dev/mid" {
		t.Errorf("edges[0] = %v", edges[0])
	}
	if edges[1].From.CP() != "dev/mid" || edges[1].To.CP() != "dev/leaf" {
		t.Errorf("edges[1] = %v", edges[1])
	}
}

func TestPropagateDiamond(t *testing.T) {
	// Both a and b depend on leaf; the walk schedules leaf once.
	p := testPlanner(t, Config{Profile: testProfile(true), CheckDependencies: true},
		repo.Package{CPV: "app/top-1.0", Keywords: "~arm", Depend: "dev/a dev/b"},
		repo.Package{CPV: "dev/a-1.0", Keywords: "~arm", Depend: "dev/leaf"},
		repo.Package{CPV: "dev/b-1.0", Keywords: "~arm", Depend: "dev/leaf"},
		repo.Package{CPV: "dev/leaf-1.0", Keywords: "~arm"},
	)

	seed := mustCPV(t, "app/top-1.0")
	visited := map[repo.CPV]bool{seed: true}
	var edges []Edge
	entries, err := p.propagate(context.Background(), seed, keyword.NewSet("arm"), visited, &edges)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"dev/b-1.0", "dev/leaf-1.0", "dev/a-1.0", "app/top-1.0"}
	got := entryCPVs(entries)
	if len(got) != len(want) {
		t.Fatalf("propagate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("propagate()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// Both discovery edges are recorded even though leaf is walked once.
	if len(edges) != 4 {
		t.Errorf("edges = %v, want 4", edges)
	}
}

func TestPropagateSystemPackagesNotWalked(t *testing.T) {
	profile := testProfile(true)
	profile.SystemPackages = []string{"sys-libs/glibc"}
	p := testPlanner(t, Config{Profile: profile, CheckDependencies: true},
		repo.Package{CPV: "app/top-1.0", Keywords: "~arm", Depend: "sys-libs/glibc"},
		repo.Package{CPV: "sys-libs/glibc-2.39", Keywords: "~arm", Depend: "app/cycle"},
	)

	seed := mustCPV(t, "app/top-1.0")
	visited := map[repo.CPV]bool{seed: true}
	var edges []Edge
	entries, err := p.propagate(context.Background(), seed, keyword.NewSet("arm"), visited, &edges)
	if err != nil {
		t.Fatal(err)
	}

	// glibc itself is listed but its own dependencies are not followed.
	want := []string{"sys-libs/glibc-2.39", "app/top-1.0"}
	got := entryCPVs(entries)
	if len(got) != len(want) {
		t.Fatalf("propagate() = %v, want %v", got, want)
	}
}

func TestPropagateKeywording(t *testing.T) {
	p := testPlanner(t, Config{Profile: testProfile(false), CheckDependencies: true},
		repo.Package{CPV: "app/top-1.0", Keywords: "~arm", Depend: "dev/odd dev/out"},
		repo.Package{CPV: "dev/odd-1.0", Keywords: "~x86"},
		repo.Package{CPV: "dev/out-1.0", Keywords: "~mips"},
	)

	seed := mustCPV(t, "app/top-1.0")
	visited := map[repo.CPV]bool{seed: true}
	var edges []Edge
	entries, err := p.propagate(context.Background(), seed, keyword.NewSet("~arm"), visited, &edges)
	if err != nil {
		t.Fatal(err)
	}

	// dev/out carries no keyword from the arch universe and resolves to
	// no candidate. dev/odd is walked and the aim is carried over as-is,
	// on the assumption that dependencies follow their consumer.
	want := []string{"dev/odd-1.0", "app/top-1.0"}
	got := entryCPVs(entries)
	if len(got) != len(want) {
		t.Fatalf("propagate() = %v, want %v", got, want)
	}
	if !entries[0].Keywords.Equal(keyword.NewSet("~arm")) {
		t.Errorf("dep keywords = %v, want [~arm]", entries[0].Keywords.Sorted())
	}
}

func TestPropagateEmptyWantedFallsBackToUnstable(t *testing.T) {
	// A dependency that never exercised the aimed arch unstable still gets
	// an entry in stable mode, carrying whatever unstable aim forms it has.
	p := testPlanner(t, Config{Profile: testProfile(true), CheckDependencies: true},
		repo.Package{CPV: "app/top-1.0", Keywords: "~arm", Depend: "dev/narrow"},
		repo.Package{CPV: "dev/narrow-1.0", Keywords: "amd64"},
	)

	seed := mustCPV(t, "app/top-1.0")
	visited := map[repo.CPV]bool{seed: true}
	var edges []Edge
	entries, err := p.propagate(context.Background(), seed, keyword.NewSet("arm"), visited, &edges)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 || entries[0].Pkg.CP() != "dev/narrow" {
		t.Fatalf("propagate() = %v", entryCPVs(entries))
	}
	if entries[0].Keywords.Len() != 0 {
		t.Errorf("narrow keywords = %v, want empty", entries[0].Keywords.Sorted())
	}
}

func TestPropagateCancellation(t *testing.T) {
	p := testPlanner(t, Config{Profile: testProfile(true)},
		repo.Package{CPV: "app/top-1.0", Keywords: "~arm"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seed := mustCPV(t, "app/top-1.0")
	var edges []Edge
	_, err := p.propagate(ctx, seed, keyword.NewSet("arm"), map[repo.CPV]bool{seed: true}, &edges)
	if err != context.Canceled {
		t.Errorf("propagate() error = %v, want context.Canceled", err)
	}
}
