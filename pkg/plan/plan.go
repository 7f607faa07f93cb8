package plan

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// Planner computes keywording/stabilization plans against a repository.
// One Planner serves one run; it holds no mutable state of its own.
type Planner struct {
	repo repo.Repository
	cfg  Config
	log  *log.Logger
}

// New builds a Planner. The option combination is validated here so that
// invalid modes fail before any repository work happens. A nil logger falls
// back to the default logger.
func New(r repo.Repository, cfg Config, logger *log.Logger) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{repo: r, cfg: cfg, log: logger}, nil
}

// Plan computes the full plan for a seed list: per-seed gap computation,
// optional dependency propagation, duplicate consolidation and slot
// handling. Pass-through lines keep their relative position in the result.
func (p *Planner) Plan(ctx context.Context, seeds []SeedLine) (*Result, error) {
	res := &Result{}
	for _, line := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if line.Passthrough {
			res.Items = append(res.Items, Item{Text: line.Text})
			continue
		}

		var cpvs []repo.CPV
		if cpv, ok := repo.ParseCPV(line.Text); ok {
			cpvs = []repo.CPV{cpv}
		} else {
			var err error
			cpvs, err = p.matchWanted(line.Text, p.cfg.NewRelease)
			if err != nil {
				return nil, err
			}
		}

		slotted, err := p.perSlot(cpvs)
		if err != nil {
			return nil, err
		}
		for _, cpv := range slotted {
			if err := p.planSeed(ctx, cpv, res); err != nil {
				return nil, err
			}
		}
	}

	res.Items = Consolidate(res.Items)
	if p.cfg.AppendSlots {
		if err := p.appendSlots(res.Items); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// planSeed appends one seed package's propagation block to the result.
func (p *Planner) planSeed(ctx context.Context, cpv repo.CPV, res *Result) error {
	gap, err := p.referenceGap(cpv, p.cfg.OldRelease)
	if err != nil {
		return err
	}

	var target keyword.Set
	switch gap.Kind {
	case NoReference:
		// No version carries reference keywords; take the package's
		// own unstable labels as the aim.
		p.log.Debugf("no versions with reference keywords for %s", cpv)
		own, err := p.keywords(cpv, keyword.ToUnstable(p.cfg.Profile.TargetArches()))
		if err != nil {
			return err
		}
		target = keyword.ToStable(own)
	case AlreadyMaximal:
		p.nothingToBeDone(cpv.String(), "cpv")
		return nil
	case Selected:
		target = gap.Keywords
	}

	visited := map[repo.CPV]bool{cpv: true}
	entries, err := p.propagate(ctx, cpv, target, visited, &res.Edges)
	if err != nil {
		return err
	}
	res.Items = append(res.Items, Item{Entries: entries, IsBlock: true})
	return nil
}

// nothingToBeDone logs a skip; phrasing depends on the request type the run
// produces.
func (p *Planner) nothingToBeDone(what, kind string) {
	if p.cfg.Stable() {
		p.log.Debugf("%s %s: already stable, ignoring", kind, what)
	} else {
		p.log.Debugf("%s %s: already keyworded, ignoring", kind, what)
	}
}
