package keyword

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/portforge/archplan/pkg/errors"
)

// Profile describes the architecture universe the planner works against and
// the packages exempt from dependency propagation.
type Profile struct {
	// Stable selects stabilization mode (promote ~arch to arch). When
	// false the tool plans keywording requests instead.
	Stable bool `toml:"stable"`

	// Arches lists the stable-capable architectures, in stable form.
	Arches []string `toml:"arches"`

	// ExtraUnstable lists arches that only ever exist in unstable form
	// (e.g. "~x86-fbsd").
	ExtraUnstable []string `toml:"extra_unstable"`

	// SystemPackages are cpv prefixes excluded from dependency checks.
	SystemPackages []string `toml:"system_packages"`
}

// DefaultProfile returns the built-in architecture universe.
func DefaultProfile() Profile {
	return Profile{
		Stable: true,
		Arches: []string{
			"alpha", "amd64", "arm", "hppa", "ia64", "m68k",
			"ppc", "ppc64", "s390", "sh", "sparc", "x86",
		},
		ExtraUnstable: []string{"~x86-fbsd"},
	}
}

// LoadProfile reads a TOML profile from path. Fields missing from the file
// keep the default profile's values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read profile %s", path)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "parse profile %s", path)
	}
	if len(p.Arches) == 0 {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "profile %s declares no arches", path)
	}
	return p, nil
}

// StableArches returns the stable-form arch universe.
func (p Profile) StableArches() Set {
	return NewSet(p.Arches...)
}

// UnstableArches returns the unstable-form arch universe, including the
// unstable-only extras.
func (p Profile) UnstableArches() Set {
	s := ToUnstable(p.StableArches())
	for _, kw := range p.ExtraUnstable {
		s.Add(Unstable(kw))
	}
	return s
}

// AllArches returns both forms of every arch.
func (p Profile) AllArches() Set {
	return p.StableArches().Union(p.UnstableArches())
}

// TargetArches returns the arch forms plans are expressed in: stable forms
// in stable mode, unstable forms otherwise.
func (p Profile) TargetArches() Set {
	if p.Stable {
		return p.StableArches()
	}
	return p.UnstableArches()
}

// IsSystemPackage reports whether cpv matches one of the exempted package
// prefixes.
func (p Profile) IsSystemPackage(cpv string) bool {
	for _, prefix := range p.SystemPackages {
		if strings.HasPrefix(cpv, prefix) {
			return true
		}
	}
	return false
}
