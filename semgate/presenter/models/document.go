package models

import (
	"github.com/semgate/semgate/internal"
	"github.com/semgate/semgate/internal/version"
	"github.com/semgate/semgate/semgate/gate"
)

// JSONSchemaVersion is the shape version of the document emitted by the JSON presenter.
const JSONSchemaVersion = "1.0.0"

// Document represents the JSON document to be presented
type Document struct {
	SchemaVersion  string     `json:"schemaVersion"`
	Artifact       Artifact   `json:"artifact"`
	Candidates     []string   `json:"candidates"`
	Baseline       string     `json:"baseline,omitempty"`
	RequiredChange string     `json:"requiredChange"`
	DeclaredChange string     `json:"declaredChange"`
	NextVersion    string     `json:"nextVersion,omitempty"`
	Verdict        string     `json:"verdict"`
	Descriptor     descriptor `json:"descriptor"`
}

// Artifact identifies the module the gate ran against.
type Artifact struct {
	Group      string `json:"group"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Classifier string `json:"classifier,omitempty"`
	Packaging  string `json:"packaging"`
	PURL       string `json:"purl"`
}

// NewDocument creates and populates a new Document struct, representing the populated JSON document.
func NewDocument(outcome gate.Outcome, appConfig interface{}) Document {
	// preallocate the candidates to ensure the JSON document does not show "null" when there are none
	candidates := make([]string, 0)
	for _, c := range outcome.Candidates {
		candidates = append(candidates, c.String())
	}

	var baseline string
	if outcome.Baseline != nil {
		baseline = outcome.Baseline.String()
	}

	var next string
	if outcome.NextVersion != nil {
		next = outcome.NextVersion.String()
	}

	return Document{
		SchemaVersion: JSONSchemaVersion,
		Artifact: Artifact{
			Group:      outcome.Coordinate.Group,
			Name:       outcome.Coordinate.Name,
			Version:    outcome.Coordinate.Version,
			Classifier: outcome.Coordinate.Classifier,
			Packaging:  outcome.Coordinate.Packaging,
			PURL:       outcome.Coordinate.PURL(),
		},
		Candidates:     candidates,
		Baseline:       baseline,
		RequiredChange: outcome.RequiredChange.String(),
		DeclaredChange: outcome.DeclaredChange.String(),
		NextVersion:    next,
		Verdict:        string(outcome.Verdict),
		Descriptor: descriptor{
			Name:          internal.ApplicationName,
			Version:       version.FromBuild().Version,
			Configuration: appConfig,
		},
	}
}
