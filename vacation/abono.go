package vacation

import "github.com/shopspring/decimal"

// =============================================================================
// ABONO POLICY - Cash-out day allowance (one third of the entitlement)
// =============================================================================

var three = decimal.NewFromInt(3)

// AbonoAllowance computes how many days of the period may still be converted
// into a cash allowance.
//
// The calculation basis is the period's own unless it is "system", in which
// case Config.DefaultAbonoBasis applies. The allowance is floor(basis / 3):
//   - current_balance basis: recomputed fresh from the live remaining balance
//     on every request
//   - initial_balance basis: sized from the period's total entitlement, but
//     collapses to zero once any active fraction already carries abono days
//     (one grant per period, sized at request time)
func AbonoAllowance(p *AccrualPeriod, cfg Config) int {
	basis := p.AbonoBasis
	if basis == AbonoBasisSystem || basis == "" {
		basis = cfg.DefaultAbonoBasis
	}

	var basisAmount int
	switch basis {
	case AbonoBasisInitial:
		for _, f := range p.ActiveFractions("") {
			if f.AbonoDays > 0 {
				return 0
			}
		}
		basisAmount = p.TotalDays
	default: // current_balance
		basisAmount = ComputeBalance(p, "").Remaining
	}

	if basisAmount <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(basisAmount)).Div(three).Floor().IntPart())
}

// AbonoDisabled reports whether an abono request of proposedDays is not
// available: either no allowance is left, or taking the request together
// with the full allowance would exceed the remaining balance.
func AbonoDisabled(proposedDays, allowance, remaining int) bool {
	return allowance <= 0 || proposedDays+allowance > remaining
}
