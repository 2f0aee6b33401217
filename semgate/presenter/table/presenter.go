package table

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/semgate/semgate/semgate/gate"
	"github.com/semgate/semgate/semgate/presenter/models"
)

const noBaselinePlaceholder = "(none)"

// Presenter is a generic struct for holding fields needed for reporting
type Presenter struct {
	outcome gate.Outcome
}

// NewPresenter is a *Presenter constructor
func NewPresenter(pb models.PresenterConfig) *Presenter {
	return &Presenter{
		outcome: pb.Outcome,
	}
}

// Present creates a table-based reporting
func (pres *Presenter) Present(output io.Writer) error {
	columns := []string{"Artifact", "Version", "Baseline", "Required", "Declared", "Next", "Verdict"}
	rows := [][]string{newRow(pres.outcome)}

	table := tablewriter.NewWriter(output)

	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(true)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(rows)
	table.Render()

	return nil
}

func newRow(outcome gate.Outcome) []string {
	baseline := noBaselinePlaceholder
	if outcome.Baseline != nil {
		baseline = outcome.Baseline.String()
	}

	var next string
	if outcome.NextVersion != nil {
		next = outcome.NextVersion.String()
	}

	return []string{
		outcome.Coordinate.Group + ":" + outcome.Coordinate.Name,
		outcome.Coordinate.Version,
		baseline,
		outcome.RequiredChange.String(),
		outcome.DeclaredChange.String(),
		next,
		string(outcome.Verdict),
	}
}
