package vacation

// =============================================================================
// BALANCE LEDGER - Used/abono/remaining derivation for a period
// =============================================================================

// BalanceSummary is the derived balance state of one accrual period.
type BalanceSummary struct {
	UsedDays  int
	AbonoDays int
	Remaining int
}

// ComputeBalance sums vacation and abono days over the period's active
// fractions, optionally excluding one fraction being edited, and derives the
// remaining balance.
//
// Pure and total: it never fails. Remaining may be zero or negative when a
// period is over-allocated; capacity enforcement is the validator's job,
// not this function's.
func ComputeBalance(p *AccrualPeriod, excludeFractionID string) BalanceSummary {
	var used, abono int
	for _, f := range p.ActiveFractions(excludeFractionID) {
		used += f.Days
		abono += f.AbonoDays
	}
	return BalanceSummary{
		UsedDays:  used,
		AbonoDays: abono,
		Remaining: p.TotalDays - used - abono,
	}
}
