package json

import (
	"encoding/json"
	"io"

	"github.com/semgate/semgate/semgate/gate"
	"github.com/semgate/semgate/semgate/presenter/models"
)

// Presenter is a generic struct for holding fields needed for reporting
type Presenter struct {
	outcome   gate.Outcome
	appConfig interface{}
}

// NewPresenter creates a new JSON presenter
func NewPresenter(pb models.PresenterConfig) *Presenter {
	return &Presenter{
		outcome:   pb.Outcome,
		appConfig: pb.AppConfig,
	}
}

// Present creates a JSON-based reporting
func (pres *Presenter) Present(output io.Writer) error {
	doc := models.NewDocument(pres.outcome, pres.appConfig)

	enc := json.NewEncoder(output)
	// prevent > and < from being escaped in the payload
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	return enc.Encode(&doc)
}
