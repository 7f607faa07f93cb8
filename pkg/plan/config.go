// Package plan computes stabilization and keywording plans: which arches a
// package still needs, propagated through its dependency graph so nothing is
// proposed ahead of an unvalidated dependency.
package plan

import (
	"github.com/portforge/archplan/pkg/errors"
	"github.com/portforge/archplan/pkg/keyword"
)

// Config bundles every mode switch for one planning run. It is built once
// and passed by value; components never consult process-wide state.
type Config struct {
	// CheckDependencies propagates keyword requirements through each
	// seed's dependency graph.
	CheckDependencies bool

	// AppendSlots suffixes each reported identifier with its slot label.
	AppendSlots bool

	// OldRelease restricts the versions considered when building the
	// reference keyword coverage. Version-prefix match, known to be
	// approximate.
	OldRelease string

	// NewRelease restricts the candidate versions considered for
	// stabilization targets.
	NewRelease string

	// TraceDeps logs the selected dependency list of every package, for
	// debugging propagation decisions.
	TraceDeps bool

	// Profile declares the arch universe, the stable/keywording mode and
	// the system-package exemptions.
	Profile keyword.Profile
}

// Validate rejects option combinations the plan semantics cannot support.
// Release filters classify versions by the consumer's release cycle, which
// is undefined for recursively discovered dependencies, so the two modes
// are mutually exclusive.
func (c Config) Validate() error {
	if c.CheckDependencies && (c.OldRelease != "" || c.NewRelease != "") {
		return errors.New(errors.ErrCodeFlagConflict,
			"release filters cannot be combined with dependency checking")
	}
	return nil
}

// Stable reports whether the run plans stabilization requests rather than
// keywording requests.
func (c Config) Stable() bool {
	return c.Profile.Stable
}
