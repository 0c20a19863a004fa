// Package signal generates directional trading signals from bar windows.
package signal

import (
	"fmt"

	"github.com/nordvik/pulse/internal/core"
)

// Source defines the interface for signal models.
// Generate consumes a lookback window of bars ordered ascending by time
// and returns one directional signal with a confidence in [0, 1].
type Source interface {
	Name() string
	MinBars() int
	Generate(window []core.Bar) (core.Signal, error)
}

// Factory creates a signal source by model name.
// Unknown names are a hard failure surfaced as core.ErrUnknownModel.
func Factory(name string) (Source, error) {
	switch name {
	case "baseline", "":
		return NewBaseline(), nil
	case "momentum":
		return NewMomentum(), nil
	default:
		return nil, core.WrapError(core.ErrUnknownModel, fmt.Errorf("model %q", name))
	}
}
