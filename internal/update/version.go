package update

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version represents a parsed semantic version.
// The zero value means "no version" and compares below every parsed version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Raw        string

	canonical string
}

// ParseVersion parses a semantic version string.
// Accepts versions with or without 'v' prefix (e.g., "1.2.3" or "v1.2.3") and
// optional pre-release and build suffixes. Shorthand forms such as "1.2" are
// rejected.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty version string", ErrInvalidVersion)
	}

	v := s
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return Version{}, fmt.Errorf("%w: %s", ErrInvalidVersion, s)
	}

	pre := semver.Prerelease(v)
	build := semver.Build(v)
	core := strings.TrimPrefix(v[:len(v)-len(pre)-len(build)], "v")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %s is not major.minor.patch", ErrInvalidVersion, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %s", ErrInvalidVersion, s)
		}
		nums[i] = n
	}

	return Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: strings.TrimPrefix(pre, "-"),
		Raw:        s,
		canonical:  semver.Canonical(v),
	}, nil
}

// IsZero reports whether v is the zero value (no version).
func (v Version) IsZero() bool {
	return v.canonical == ""
}

// String returns the version as it was written in its source.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	if v.IsZero() {
		return ""
	}
	return strings.TrimPrefix(v.canonical, "v")
}

// Compare compares two versions using semantic version precedence.
// Returns:
//
//	-1 if v < other
//	 0 if v == other
//	 1 if v > other
//
// Build metadata is ignored and pre-release versions sort below their release.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canonical, other.canonical)
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v > other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal returns true if v == other.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}
