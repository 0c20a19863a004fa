package risk

// Validator performs static pre-trade checks for manual trade
// submission. Unlike the gate it does not short-circuit: every violated
// constraint is reported so the caller can surface all of them at once.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator over the shared risk limits.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate returns all constraint violations for the proposed trade.
// An empty slice means the trade passes.
func (v *Validator) Validate(walletEUR, drawdownPct, tradeValueEUR float64) []string {
	var violations []string

	if v.cfg.KillSwitch {
		violations = append(violations, "kill switch active")
	}
	if drawdownPct > v.cfg.MaxDrawdownPct {
		violations = append(violations, "max drawdown exceeded")
	}
	if walletEUR < v.cfg.MinWalletEUR {
		violations = append(violations, "wallet below minimum threshold")
	}
	if tradeValueEUR < v.cfg.MinOrderEUR {
		violations = append(violations, "trade value below minimum order size")
	}
	if tradeValueEUR > walletEUR*(v.cfg.MaxTradePct/100) {
		violations = append(violations, "trade exceeds max trade size percentage")
	}

	return violations
}
