package depsolver

import (
	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Version is a totally ordered package version. The zero Version is
// NoVersion, a sentinel that wraps no parsed version; every other Version
// wraps a parsed semantic version and compares by standard semver
// precedence.
type Version struct {
	sv *semver.Version
}

// NoVersion is the distinguished sentinel version. It sorts before every
// real version. Reachability trimming uses it as the single version of the
// sentinel entry it injects for a referenced-but-undeclared package; the
// run-list package uses syntheticRunListVersion instead.
var NoVersion = Version{}

// IsNoVersion reports whether v is the NoVersion sentinel.
func (v Version) IsNoVersion() bool {
	return v.sv == nil
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, under standard semver precedence. NoVersion compares less than
// every real version and equal to itself.
func (v Version) Compare(other Version) int {
	switch {
	case v.IsNoVersion() && other.IsNoVersion():
		return 0
	case v.IsNoVersion():
		return -1
	case other.IsNoVersion():
		return 1
	default:
		return v.sv.Compare(other.sv)
	}
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other denote the same version.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Major, Minor, and Patch return the three numeric components of a real
// version. They are 0 for NoVersion.
func (v Version) Major() uint64 {
	if v.IsNoVersion() {
		return 0
	}
	return v.sv.Major()
}

func (v Version) Minor() uint64 {
	if v.IsNoVersion() {
		return 0
	}
	return v.sv.Minor()
}

func (v Version) Patch() uint64 {
	if v.IsNoVersion() {
		return 0
	}
	return v.sv.Patch()
}

func (v Version) String() string {
	if v.IsNoVersion() {
		return "(none)"
	}
	return v.sv.String()
}

// key returns a string that is equal for (and only for) equal versions. It
// backs the structural-equality dedup that DepGraph performs over
// canonicalized constraints.
func (v Version) key() string {
	if v.IsNoVersion() {
		return "\x00novsn"
	}
	return v.sv.String()
}

// RawVersion is anything that can be canonicalized into a Version: a
// version string, an already-parsed Version, or nil (meaning NoVersion).
type RawVersion interface{}

// ParseVersion canonicalizes a RawVersion into a Version. It is the sole
// caller of the external semver parser; every other part of this package
// operates on the already-parsed Version value.
func ParseVersion(raw RawVersion) (Version, error) {
	switch t := raw.(type) {
	case nil:
		return NoVersion, nil
	case Version:
		return t, nil
	case *semver.Version:
		return Version{sv: t}, nil
	case semver.Version:
		return Version{sv: &t}, nil
	case string:
		if t == "" {
			return NoVersion, nil
		}
		sv, err := semver.NewVersion(t)
		if err != nil {
			return Version{}, errors.Wrapf(err, "parse version %q", t)
		}
		return Version{sv: sv}, nil
	default:
		return Version{}, errors.Errorf("depsolver: cannot parse version from %T", raw)
	}
}

// MustParseVersion is ParseVersion, panicking on error. Intended for tests
// and static universe literals, not for untrusted input.
func MustParseVersion(raw RawVersion) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// syntheticRunListVersion is the single synthetic version {0,0,0} assigned
// to the run-list pseudo-package by VersionManager. It is a real parsed
// version distinct from the NoVersion sentinel.
func syntheticRunListVersion() Version {
	return MustParseVersion("0.0.0")
}
