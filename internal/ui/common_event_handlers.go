package ui

import (
	"fmt"
	"io"

	"github.com/wagoodman/go-partybus"

	semgateEventParsers "github.com/semgate/semgate/semgate/event/parsers"
)

func handleCompatibilityCheckFinished(event partybus.Event, reportOutput io.Writer) error {
	// show the report to stdout
	pres, err := semgateEventParsers.ParseCompatibilityCheckFinished(event)
	if err != nil {
		return fmt.Errorf("bad CheckFinished event: %w", err)
	}

	if err := pres.Present(reportOutput); err != nil {
		return fmt.Errorf("unable to show compatibility report: %w", err)
	}
	return nil
}

func handleNonRootCommandFinished(event partybus.Event, reportOutput io.Writer) error {
	// show the report to stdout
	result, err := semgateEventParsers.ParseNonRootCommandFinished(event)
	if err != nil {
		return fmt.Errorf("bad NonRootCommandFinished event: %w", err)
	}

	if _, err := reportOutput.Write([]byte(*result)); err != nil {
		return fmt.Errorf("unable to show command output: %w", err)
	}
	return nil
}
