package gate

import (
	"github.com/semgate/semgate/semgate/artifact"
	"github.com/semgate/semgate/semgate/semver"
)

// Verdict summarizes how the gate judged a module.
type Verdict string

const (
	OKVerdict     Verdict = "ok"
	WarnedVerdict Verdict = "warned"
	FailedVerdict Verdict = "failed"
)

// Outcome is everything a single gate run decided about one module. It is built exactly
// once per check and handed to presenters untouched.
type Outcome struct {
	Coordinate     artifact.Coordinate
	Candidates     semver.Collection // prior versions considered for the baseline (ascending)
	Baseline       *semver.Version   // nil when the artifact has no prior release
	Version        *semver.Version   // the declared version of the candidate build
	RequiredChange semver.Change
	DeclaredChange semver.Change
	NextVersion    *semver.Version
	Verdict        Verdict
}
