package presenter

import (
	"io"

	"github.com/semgate/semgate/semgate/presenter/json"
	"github.com/semgate/semgate/semgate/presenter/models"
	"github.com/semgate/semgate/semgate/presenter/table"
	"github.com/semgate/semgate/semgate/presenter/template"
)

// Presenter is the main interface other Presenters need to implement
type Presenter interface {
	Present(io.Writer) error
}

// GetPresenter retrieves a Presenter that matches a CLI option
func GetPresenter(option Option, pb models.PresenterConfig, templateFilePath string) Presenter {
	switch option {
	case JSONPresenter:
		return json.NewPresenter(pb)
	case TablePresenter:
		return table.NewPresenter(pb)
	case TemplatePresenter:
		return template.NewPresenter(pb, templateFilePath)
	default:
		return nil
	}
}
