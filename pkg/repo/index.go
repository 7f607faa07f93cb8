package repo

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/portforge/archplan/pkg/errors"
	"github.com/portforge/archplan/pkg/keyword"
)

// Package is one release record in a metadata snapshot.
type Package struct {
	CPV      string `toml:"cpv"`
	Keywords string `toml:"keywords"`
	Slot     string `toml:"slot"`
	Depend   string `toml:"depend"`
	Rdepend  string `toml:"rdepend"`
	Pdepend  string `toml:"pdepend"`
	Masked   bool   `toml:"masked"`
}

type snapshot struct {
	Packages []Package `toml:"package"`
}

type indexEntry struct {
	cpv    CPV
	kws    keyword.Set
	slot   string
	deps   []string
	masked bool
}

// Index is an in-memory metadata index implementing [Repository].
// It is populated once and read-only afterwards.
type Index struct {
	byCP  map[string][]*indexEntry // descending version order
	byCPV map[string]*indexEntry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		byCP:  make(map[string][]*indexEntry),
		byCPV: make(map[string]*indexEntry),
	}
}

// LoadTOML reads a TOML metadata snapshot into an index.
func LoadTOML(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read snapshot %s", path)
	}
	var snap snapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRepo, err, "parse snapshot %s", path)
	}
	idx := NewIndex()
	for _, p := range snap.Packages {
		if err := idx.Add(p); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add inserts one release record.
func (x *Index) Add(p Package) error {
	cpv, ok := ParseCPV(p.CPV)
	if !ok {
		return errors.New(errors.ErrCodeInvalidCPV, "snapshot entry %q is not a cpv", p.CPV)
	}
	if _, dup := x.byCPV[cpv.String()]; dup {
		return errors.New(errors.ErrCodeInvalidRepo, "duplicate snapshot entry %s", cpv)
	}

	slot := p.Slot
	if slot == "" {
		slot = "0"
	}
	e := &indexEntry{
		cpv:    cpv,
		kws:    keyword.ParseSet(p.Keywords),
		slot:   slot,
		deps:   mergeDeps(p.Depend, p.Rdepend, p.Pdepend),
		masked: p.Masked,
	}

	x.byCPV[cpv.String()] = e
	cp := cpv.CP()
	x.byCP[cp] = append(x.byCP[cp], e)
	entries := x.byCP[cp]
	for i := len(entries) - 1; i > 0; i-- {
		if CompareVersions(entries[i-1].cpv.Version, entries[i].cpv.Version) >= 0 {
			break
		}
		entries[i-1], entries[i] = entries[i], entries[i-1]
	}
	return nil
}

// mergeDeps consolidates the three dependency strings into one de-duplicated
// specifier list, first occurrence preserved.
func mergeDeps(depend, rdepend, pdepend string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range []string{depend, rdepend, pdepend} {
		for _, atom := range strings.Fields(raw) {
			if _, dup := seen[atom]; dup {
				continue
			}
			seen[atom] = struct{}{}
			out = append(out, atom)
		}
	}
	return out
}

// Match implements [Repository].
func (x *Index) Match(atomStr string) ([]CPV, error) {
	a, err := ParseAtom(atomStr)
	if err != nil {
		return nil, err
	}
	if a.Blocker {
		return nil, nil
	}
	var out []CPV
	for _, e := range x.byCP[a.CP()] {
		if !a.MatchesVersion(e.cpv.Version) {
			continue
		}
		if a.Slot != "" && e.slot != a.Slot {
			continue
		}
		out = append(out, e.cpv)
	}
	return out, nil
}

// Keywords implements [Repository].
func (x *Index) Keywords(cpv CPV) (keyword.Set, error) {
	e, err := x.lookup(cpv)
	if err != nil {
		return nil, err
	}
	return e.kws, nil
}

// Slot implements [Repository].
func (x *Index) Slot(cpv CPV) (string, error) {
	e, err := x.lookup(cpv)
	if err != nil {
		return "", err
	}
	return e.slot, nil
}

// DependencyAtoms implements [Repository].
func (x *Index) DependencyAtoms(cpv CPV) ([]string, error) {
	e, err := x.lookup(cpv)
	if err != nil {
		return nil, err
	}
	return e.deps, nil
}

// Visible implements [Repository].
func (x *Index) Visible(cpv CPV) (bool, error) {
	e, err := x.lookup(cpv)
	if err != nil {
		return false, err
	}
	return !e.masked, nil
}

// Len returns the number of releases in the index.
func (x *Index) Len() int {
	return len(x.byCPV)
}

func (x *Index) lookup(cpv CPV) (*indexEntry, error) {
	if e, ok := x.byCPV[cpv.String()]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodePackageNotFound, "no metadata for %s", cpv)
}

var _ Repository = (*Index)(nil)
