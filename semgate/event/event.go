package event

import "github.com/wagoodman/go-partybus"

const (
	AppUpdateAvailable         partybus.EventType = "semgate-app-update-available"
	FetchBaselineArtifact      partybus.EventType = "semgate-fetch-baseline-artifact"
	CompatibilityCheckStarted  partybus.EventType = "semgate-compatibility-check-started"
	CompatibilityCheckFinished partybus.EventType = "semgate-compatibility-check-finished"
	NonRootCommandFinished     partybus.EventType = "semgate-non-root-command-finished"
	CLIExit                    partybus.EventType = "semgate-cli-exit"
)
