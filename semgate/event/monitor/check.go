package monitor

import "github.com/wagoodman/go-progress"

// Check provides a polling interface for observing a running compatibility check.
type Check struct {
	CandidatesDiscovered progress.Monitorable
	Stage                progress.Stager
}
