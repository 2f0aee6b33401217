package bus

import (
	"github.com/wagoodman/go-partybus"

	"github.com/semgate/semgate/semgate/event"
)

func Exit() {
	Publish(partybus.Event{
		Type: event.CLIExit,
	})
}

func Report(report string) {
	Publish(partybus.Event{
		Type:  event.NonRootCommandFinished,
		Value: report,
	})
}
