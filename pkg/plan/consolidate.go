package plan

import (
	"github.com/portforge/archplan/pkg/keyword"
	"github.com/portforge/archplan/pkg/repo"
)

// Consolidate merges redundant entries for the same release across all
// blocks. Every occurrence of a release contributes to one unioned keyword
// set; the first occurrence keeps that union and every later occurrence is
// dropped entirely. Releases sharing category/name but differing in version
// stay separate: nothing says they are interchangeable.
func Consolidate(items []Item) []Item {
	union := make(map[repo.CPV]keyword.Set)
	for _, item := range items {
		for _, e := range item.Entries {
			if have, ok := union[e.Pkg]; ok {
				union[e.Pkg] = have.Union(e.Keywords)
			} else {
				union[e.Pkg] = e.Keywords.Clone()
			}
		}
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsBlock {
			out = append(out, item)
			continue
		}
		kept := make([]Entry, 0, len(item.Entries))
		for _, e := range item.Entries {
			kws, ok := union[e.Pkg]
			if !ok {
				continue
			}
			delete(union, e.Pkg)
			kept = append(kept, Entry{Pkg: e.Pkg, Slot: e.Slot, Keywords: kws})
		}
		out = append(out, Item{Entries: kept, IsBlock: true})
	}
	return out
}

// perSlot reduces a descending-version candidate list to its first (highest)
// version per distinct slot. Independent slots are independently
// stabilizable, so each yields its own propagation path.
func (p *Planner) perSlot(cpvs []repo.CPV) ([]repo.CPV, error) {
	seen := make(map[string]bool)
	var out []repo.CPV
	for _, cpv := range cpvs {
		slot, err := p.repo.Slot(cpv)
		if err != nil {
			return nil, err
		}
		if seen[slot] {
			continue
		}
		seen[slot] = true
		out = append(out, cpv)
	}
	return out, nil
}

// appendSlots fills each entry's slot label so reports print identity:slot.
func (p *Planner) appendSlots(items []Item) error {
	for i := range items {
		for j := range items[i].Entries {
			slot, err := p.repo.Slot(items[i].Entries[j].Pkg)
			if err != nil {
				return err
			}
			items[i].Entries[j].Slot = slot
		}
	}
	return nil
}
