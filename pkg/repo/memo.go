package repo

import "github.com/portforge/archplan/pkg/keyword"

// Memoized wraps a Repository and remembers every answer for the duration of
// one run. The planner re-queries the same package many times over for
// keywords, slot and dependency atoms, so answers are recorded on first use.
//
// Only successful answers are memoized; a failing query is fatal to the run
// anyway. Not safe for concurrent use: plan computation is single-threaded.
type Memoized struct {
	inner   Repository
	match   map[string][]CPV
	kws     map[string]keyword.Set
	slots   map[string]string
	deps    map[string][]string
	visible map[string]bool
}

// Memoize wraps r with a per-run answer store.
func Memoize(r Repository) *Memoized {
	return &Memoized{
		inner:   r,
		match:   make(map[string][]CPV),
		kws:     make(map[string]keyword.Set),
		slots:   make(map[string]string),
		deps:    make(map[string][]string),
		visible: make(map[string]bool),
	}
}

// Match implements [Repository].
func (m *Memoized) Match(atom string) ([]CPV, error) {
	if got, ok := m.match[atom]; ok {
		return got, nil
	}
	got, err := m.inner.Match(atom)
	if err != nil {
		return nil, err
	}
	m.match[atom] = got
	return got, nil
}

// Keywords implements [Repository].
func (m *Memoized) Keywords(cpv CPV) (keyword.Set, error) {
	key := cpv.String()
	if got, ok := m.kws[key]; ok {
		return got, nil
	}
	got, err := m.inner.Keywords(cpv)
	if err != nil {
		return nil, err
	}
	m.kws[key] = got
	return got, nil
}

// Slot implements [Repository].
func (m *Memoized) Slot(cpv CPV) (string, error) {
	key := cpv.String()
	if got, ok := m.slots[key]; ok {
		return got, nil
	}
	got, err := m.inner.Slot(cpv)
	if err != nil {
		return "", err
	}
	m.slots[key] = got
	return got, nil
}

// DependencyAtoms implements [Repository].
func (m *Memoized) DependencyAtoms(cpv CPV) ([]string, error) {
	key := cpv.String()
	if got, ok := m.deps[key]; ok {
		return got, nil
	}
	got, err := m.inner.DependencyAtoms(cpv)
	if err != nil {
		return nil, err
	}
	m.deps[key] = got
	return got, nil
}

// Visible implements [Repository].
func (m *Memoized) Visible(cpv CPV) (bool, error) {
	key := cpv.String()
	if got, ok := m.visible[key]; ok {
		return got, nil
	}
	got, err := m.inner.Visible(cpv)
	if err != nil {
		return false, err
	}
	m.visible[key] = got
	return got, nil
}

var _ Repository = (*Memoized)(nil)
