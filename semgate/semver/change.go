package semver

import (
	"fmt"
	"strings"

	hashiVer "github.com/hashicorp/go-version"
)

// Change is the classification of the difference between two versions. The order of the
// constants is load-bearing: a larger value is a more significant change.
const (
	UnknownChange Change = iota
	NoChange
	PatchChange
	MinorChange
	MajorChange
)

type Change int

var changeStr = []string{
	"Unknown",
	"None",
	"Patch",
	"Minor",
	"Major",
}

var Changes = []Change{
	NoChange,
	PatchChange,
	MinorChange,
	MajorChange,
}

// ParseChange returns the change classification for the given user input (case insensitive).
func ParseChange(userInput string) Change {
	switch strings.TrimSpace(strings.ToLower(userInput)) {
	case strings.ToLower(NoChange.String()):
		return NoChange
	case strings.ToLower(PatchChange.String()):
		return PatchChange
	case strings.ToLower(MinorChange.String()):
		return MinorChange
	case strings.ToLower(MajorChange.String()):
		return MajorChange
	default:
		return UnknownChange
	}
}

func (c Change) String() string {
	if int(c) >= len(changeStr) || c < 0 {
		return changeStr[0]
	}

	return changeStr[c]
}

// ClassifyChange reports the bump taken from old to new, inspecting components in
// significance order: the first component that grew decides the classification.
func ClassifyChange(old, new *Version) Change {
	switch {
	case old.Major() < new.Major():
		return MajorChange
	case old.Minor() < new.Minor():
		return MinorChange
	case old.Patch() < new.Patch():
		return PatchChange
	}

	return NoChange
}

// Next returns the next logical version after applying the change to the given version. The
// result is always a bare major.minor.patch triple; any qualifier is dropped.
func (c Change) Next(v *Version) *Version {
	var next string
	switch c {
	case MajorChange:
		next = fmt.Sprintf("%d.0.0", v.Major()+1)
	case MinorChange:
		next = fmt.Sprintf("%d.%d.0", v.Major(), v.Minor()+1)
	case PatchChange:
		next = fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()+1)
	default:
		next = fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	}

	return &Version{
		raw: next,
		obj: hashiVer.Must(hashiVer.NewVersion(next)),
	}
}
