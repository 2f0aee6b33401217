package models

import "github.com/semgate/semgate/semgate/gate"

// PresenterConfig is the struct that presenters are initialized with
type PresenterConfig struct {
	Outcome   gate.Outcome
	AppConfig interface{}
}
