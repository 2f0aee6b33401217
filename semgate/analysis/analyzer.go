package analysis

import (
	"context"

	"github.com/semgate/semgate/semgate/semver"
)

// Options carries everything the analyzer may ignore (or additionally load) while comparing
// two artifacts.
type Options struct {
	ExcludePackages []string
	ExcludeFiles    []string
	Classpath       []string
}

// Analyzer determines the change classification required by the differences found between a
// baseline artifact and a candidate artifact. Implementations are opaque: the gate only
// cares about the resulting Change.
type Analyzer interface {
	Classify(ctx context.Context, baselinePath, candidatePath string, opts Options) (semver.Change, error)
}
