package semver

import (
	"fmt"

	hashiVer "github.com/hashicorp/go-version"

	"github.com/semgate/semgate/internal"
)

const snapshotSuffix = "-SNAPSHOT"

// Version is an immutable parse of an artifact version string. Missing numeric components
// read as zero ("1.2" has patch 0).
type Version struct {
	raw string
	obj *hashiVer.Version
}

func NewVersion(raw string) (*Version, error) {
	verObj, err := hashiVer.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse version '%s': %w", raw, err)
	}

	return &Version{
		raw: raw,
		obj: verObj,
	}, nil
}

// Must is a helper for tests and static initialization, panicking on parse failure.
func Must(v *Version, err error) *Version {
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Version) Major() int {
	return v.obj.Segments()[0]
}

func (v *Version) Minor() int {
	return v.obj.Segments()[1]
}

func (v *Version) Patch() int {
	return v.obj.Segments()[2]
}

// IsSnapshot indicates an unreleased development version (a -SNAPSHOT qualifier).
func (v *Version) IsSnapshot() bool {
	return internal.HasAnyOfSuffixes(v.raw, snapshotSuffix)
}

// Compare returns -1, 0, or 1 if this version is smaller, equal, or larger than the other.
// A release always outranks its own-triple snapshot.
func (v *Version) Compare(other *Version) int {
	return v.obj.Compare(other.obj)
}

func (v *Version) LessThan(other *Version) bool {
	return v.obj.LessThan(other.obj)
}

func (v *Version) Equal(other *Version) bool {
	return v.obj.Equal(other.obj)
}

func (v *Version) String() string {
	return v.raw
}

// Collection implements sort.Interface over versions (ascending).
type Collection []*Version

func (c Collection) Len() int {
	return len(c)
}

func (c Collection) Less(i, j int) bool {
	return c[i].LessThan(c[j])
}

func (c Collection) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}
