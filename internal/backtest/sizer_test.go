package backtest

import (
	"testing"

	"github.com/nordvik/pulse/internal/core"
)

func TestTradeSizer_ComputeSize(t *testing.T) {
	sizer := NewTradeSizer(2.0)

	// 10000 * 2% * 0.5 = 100.00
	got := sizer.ComputeSize(10000, core.Signal{Direction: core.DirectionBuy, Confidence: 0.5})
	if got != 100.00 {
		t.Errorf("size = %v, want 100.00", got)
	}
}

func TestTradeSizer_HoldIsZero(t *testing.T) {
	sizer := NewTradeSizer(2.0)
	got := sizer.ComputeSize(10000, core.Signal{Direction: core.DirectionHold, Confidence: 0.9})
	if got != 0 {
		t.Errorf("size = %v, want 0 for HOLD", got)
	}
}

func TestTradeSizer_RoundsToCents(t *testing.T) {
	sizer := NewTradeSizer(2.0)
	got := sizer.ComputeSize(10000, core.Signal{Direction: core.DirectionSell, Confidence: 0.333})
	if got != 66.60 {
		t.Errorf("size = %v, want 66.60", got)
	}
}

func TestTradeSizer_NeverExceedsCapital(t *testing.T) {
	sizer := NewTradeSizer(100)
	for _, conf := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		got := sizer.ComputeSize(5000, core.Signal{Direction: core.DirectionBuy, Confidence: conf})
		if got < 0 || got > 5000 {
			t.Errorf("size = %v for confidence %v, want in [0, 5000]", got, conf)
		}
	}
}

func TestTradeSizer_DefaultRiskPct(t *testing.T) {
	sizer := NewTradeSizer(0)
	got := sizer.ComputeSize(10000, core.Signal{Direction: core.DirectionBuy, Confidence: 1})
	if got != 200.00 {
		t.Errorf("size = %v, want 200.00 with default 2%% risk", got)
	}
}
