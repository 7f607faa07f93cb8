package plan

import (
	"context"

	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// frame is one in-flight package on the propagation stack: the package, its
// computed wanted set, its pending dependency selections, and the entries
// accumulated from it and its finished dependency subtrees.
type frame struct {
	cpv    repo.CPV
	wanted keyword.Set
	deps   []repo.CPV
	next   int
	acc    []Entry
}

// newFrame computes the wanted keyword set for cpv against target and
// selects the dependencies to walk into. ok is false when there is nothing
// to request for cpv, which only happens in keywording mode.
func (p *Planner) newFrame(cpv repo.CPV, target keyword.Set) (*frame, bool, error) {
	current, err := p.keywords(cpv, p.cfg.Profile.AllArches())
	if err != nil {
		return nil, false, err
	}
	wanted := keyword.Wanted(current, target, p.cfg.Stable())

	if wanted.Len() == 0 {
		// The package carries fewer keywords than the aim, usually
		// because it sat behind an alternative dependency or an
		// optional feature that atom parsing made strict. In stable
		// mode, stabilize whatever arches it was exercised on; for
		// keywording there is nothing sensible to request.
		if !p.cfg.Stable() {
			p.nothingToBeDone(cpv.String(), "dep")
			return nil, false, nil
		}
		wanted, err = p.keywords(cpv, keyword.ToUnstable(target))
		if err != nil {
			return nil, false, err
		}
	}

	fr := &frame{
		cpv:    cpv,
		wanted: wanted,
		acc:    []Entry{{Pkg: cpv, Keywords: wanted}},
	}
	if p.cfg.CheckDependencies && !p.cfg.Profile.IsSystemPackage(cpv.String()) {
		fr.deps, err = p.selectDeps(cpv, wanted)
		if err != nil {
			return nil, false, err
		}
		if p.cfg.TraceDeps {
			p.log.Debugf("deps of %s: %v", cpv, fr.deps)
		}
	}
	return fr, true, nil
}

// propagate walks the dependency graph from seed with an explicit frame
// stack and returns the ordered propagation entries: every package's
// dependencies appear before the package itself, and the seed's own entry
// comes last.
//
// visited holds the identities already scheduled during this seed's walk.
// A dependency found there is skipped on the assumption that its recorded
// requirement covers the new need; a later, wider requirement is silently
// under-reported. Each frame drops entries already present verbatim in its
// accumulation, so a diamond in the graph yields a single entry.
func (p *Planner) propagate(ctx context.Context, seed repo.CPV, target keyword.Set, visited map[repo.CPV]bool, edges *[]Edge) ([]Entry, error) {
	root, ok, err := p.newFrame(seed, target)
	if err != nil || !ok {
		return nil, err
	}

	stack := []*frame{root}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fr := stack[len(stack)-1]

		if fr.next < len(fr.deps) {
			dep := fr.deps[fr.next]
			fr.next++
			*edges = append(*edges, Edge{From: fr.cpv, To: dep})
			if visited[dep] {
				p.log.Debugf("%s already scheduled, skipping", dep)
				continue
			}
			visited[dep] = true
			child, ok, err := p.newFrame(dep, fr.wanted)
			if err != nil {
				return nil, err
			}
			if ok {
				stack = append(stack, child)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			reverseEntries(fr.acc)
			return fr.acc, nil
		}
		parent := stack[len(stack)-1]
		for _, e := range fr.acc {
			if !containsEntry(parent.acc, e) {
				parent.acc = append(parent.acc, e)
			}
		}
	}
}

func containsEntry(entries []Entry, e Entry) bool {
	for _, have := range entries {
		if have.equal(e) {
			return true
		}
	}
	return false
}

func reverseEntries(entries []Entry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
