package console

import (
	"encoding/json"

	"fraudconsole/internal/models"
)

// PanelState is what the result panel currently shows.
type PanelState int

const (
	PanelEmpty PanelState = iota
	PanelLoading
	PanelResult
	PanelError
)

func (s PanelState) String() string {
	switch s {
	case PanelLoading:
		return "loading"
	case PanelResult:
		return "result"
	case PanelError:
		return "error"
	default:
		return "empty"
	}
}

func (s PanelState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Panel is exactly one of empty, loading, a result or an error message.
// Result is only set in PanelResult and Error only in PanelError.
type Panel struct {
	State  PanelState               `json:"state"`
	Result *models.PredictionResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func loadingPanel() Panel {
	return Panel{State: PanelLoading}
}

func resultPanel(r models.PredictionResult) Panel {
	return Panel{State: PanelResult, Result: &r}
}

func errorPanel(msg string) Panel {
	return Panel{State: PanelError, Error: msg}
}
