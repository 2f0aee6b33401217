package ui

import (
	"context"
	"sync"

	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/jotframe/pkg/frame"

	semgateEvent "github.com/semgate/semgate/semgate/event"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (r *Handler) RespondsTo(event partybus.Event) bool {
	switch event.Type {
	case semgateEvent.CompatibilityCheckStarted,
		semgateEvent.FetchBaselineArtifact:
		return true
	default:
		return false
	}
}

func (r *Handler) Handle(ctx context.Context, fr *frame.Frame, event partybus.Event, wg *sync.WaitGroup) error {
	switch event.Type {
	case semgateEvent.CompatibilityCheckStarted:
		return r.CompatibilityCheckStartedHandler(ctx, fr, event, wg)
	case semgateEvent.FetchBaselineArtifact:
		return r.FetchBaselineArtifactHandler(ctx, fr, event, wg)
	}
	return nil
}
