package plan

import (
	"strings"

	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// keywords returns cpv's keyword set restricted to the given arch filter.
func (p *Planner) keywords(cpv repo.CPV, filter keyword.Set) (keyword.Set, error) {
	kws, err := p.repo.Keywords(cpv)
	if err != nil {
		return nil, err
	}
	return kws.Intersect(filter), nil
}

// belongsRelease checks whether a version belongs to a release cycle by
// version prefix. Primitive on purpose: release boundaries are not encoded
// in version strings, and this approximation is a documented limitation.
func belongsRelease(cpv repo.CPV, release string) bool {
	return strings.HasPrefix(cpv.Version, release)
}

// canStabilize reports whether cpv is eligible as a stabilization
// candidate: it belongs to the release when one is given, is not masked,
// and carries at least one keyword from the arch universe.
func (p *Planner) canStabilize(cpv repo.CPV, release string) (bool, error) {
	if release != "" && !belongsRelease(cpv, release) {
		return false, nil
	}
	visible, err := p.repo.Visible(cpv)
	if err != nil || !visible {
		return false, err
	}
	kws, err := p.keywords(cpv, p.cfg.Profile.AllArches())
	if err != nil {
		return false, err
	}
	return kws.Len() > 0, nil
}

// matchWanted resolves atom to its stabilization-eligible candidates in
// descending version order.
func (p *Planner) matchWanted(atom, release string) ([]repo.CPV, error) {
	cands, err := p.repo.Match(atom)
	if err != nil {
		return nil, err
	}
	var out []repo.CPV
	for _, c := range cands {
		ok, err := p.canStabilize(c, release)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// referenceGap computes the keyword set cpv is missing relative to the
// maximum coverage proven by any eligible version up to and including it.
//
// Returns NoReference when no version carries relevant keywords at all,
// AlreadyMaximal when cpv already has the best known coverage, and
// Selected with the missing set otherwise. In stable mode a keyword only
// counts as missing when cpv already carries its unstable counterpart.
func (p *Planner) referenceGap(cpv repo.CPV, oldRelease string) (Outcome, error) {
	current, err := p.keywords(cpv, p.cfg.Profile.AllArches())
	if err != nil {
		return Outcome{}, err
	}

	refs, err := p.matchWanted("<="+cpv.String(), oldRelease)
	if err != nil {
		return Outcome{}, err
	}
	maximum := keyword.NewSet()
	for _, ref := range refs {
		kws, err := p.keywords(ref, p.cfg.Profile.TargetArches())
		if err != nil {
			return Outcome{}, err
		}
		maximum = maximum.Union(kws)
	}
	if maximum.Len() == 0 {
		return Outcome{Kind: NoReference}, nil
	}

	missing := keyword.NewSet()
	for kw := range maximum {
		if p.cfg.Stable() && !current.Has(keyword.Unstable(kw)) {
			continue
		}
		missing.Add(kw)
	}
	if missing.Len() == 0 {
		return Outcome{Kind: AlreadyMaximal}, nil
	}
	return Outcome{Kind: Selected, Keywords: missing}, nil
}

// bestDep picks the single candidate version of atom to propagate wanted
// into.
//
// In stable mode a candidate is rejected unless it already carries the
// unstable form of every wanted keyword: a dependency must have been
// exercised unstable everywhere its consumer is being promoted. Among the
// survivors the largest keyword overlap with wanted wins; ties go to the
// most recent version. A candidate that already carries all of wanted
// short-circuits to AlreadySatisfied.
//
// When no candidate survives rejection, or none overlaps wanted at all, a
// second unrestricted pass scores candidates against the full target arch
// universe and falls back to the single most recent candidate. That winner
// may violate the unstable-coverage precondition; the behavior is a known
// approximation and is kept as-is.
func (p *Planner) bestDep(atom string, wanted keyword.Set) (Outcome, error) {
	cands, err := p.matchWanted(atom, p.cfg.NewRelease)
	if err != nil {
		return Outcome{}, err
	}
	if len(cands) == 0 {
		return Outcome{Kind: NoCandidate}, nil
	}

	unstableWanted := keyword.ToUnstable(wanted)
	var best repo.CPV
	var bestOverlap keyword.Set
	survivors := false

	for _, c := range cands {
		if p.cfg.Stable() {
			cur, err := p.keywords(c, wanted.Union(unstableWanted))
			if err != nil {
				return Outcome{}, err
			}
			if !keyword.ToUnstable(cur).Intersect(unstableWanted).Equal(unstableWanted) {
				p.log.Debugf("insufficient unstable keywords in %s", c)
				continue
			}
		}
		overlap, err := p.keywords(c, wanted)
		if err != nil {
			return Outcome{}, err
		}
		if overlap.Equal(wanted) {
			return Outcome{Kind: AlreadySatisfied, Version: c, Keywords: overlap}, nil
		}
		if !survivors || overlap.Len() > bestOverlap.Len() {
			best, bestOverlap = c, overlap
		}
		survivors = true
	}

	if !survivors || bestOverlap.Len() == 0 {
		best, bestOverlap = cands[0], keyword.NewSet()
		for _, c := range cands {
			cur, err := p.keywords(c, p.cfg.Profile.TargetArches())
			if err != nil {
				return Outcome{}, err
			}
			if cur.Len() > bestOverlap.Len() {
				best, bestOverlap = c, cur
			}
		}
	}
	return Outcome{Kind: Selected, Version: best, Keywords: bestOverlap}, nil
}

// selectDeps resolves every real dependency atom of cpv and picks its best
// candidate against wanted, de-duplicated in first-occurrence order.
func (p *Planner) selectDeps(cpv repo.CPV, wanted keyword.Set) ([]repo.CPV, error) {
	atoms, err := p.repo.DependencyAtoms(cpv)
	if err != nil {
		return nil, err
	}
	var deps []repo.CPV
	seen := make(map[repo.CPV]bool)
	for _, atom := range atoms {
		if !strings.Contains(atom, "/") {
			// Not a dependency specifier (USE conditionals,
			// group operators).
			continue
		}
		out, err := p.bestDep(atom, wanted)
		if err != nil {
			return nil, err
		}
		switch out.Kind {
		case NoCandidate:
			p.log.Debugf("irrelevant atom: %s", atom)
		case AlreadySatisfied:
			p.nothingToBeDone(atom, "dep")
		case Selected:
			if !seen[out.Version] {
				seen[out.Version] = true
				deps = append(deps, out.Version)
			}
		}
	}
	return deps, nil
}
