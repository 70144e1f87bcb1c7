/*
rules.go - The ordered rule pipeline for a proposed vacation fraction

PURPOSE:
  Each legal constraint is an independent, pure predicate over the proposal
  plus a frozen snapshot of the employee's state. Rules never mutate
  anything and never read the clock; "today" arrives on the Context.

PIPELINE ORDER (first failure wins):
   1. proposal completeness            hard
   2. weekday restriction              hard (no Friday/Saturday starts)
   3. pre-holiday blackout             hard
   4. single 13th advance per year     hard
   5. start before period end          soft, collective-rule exemption
   6. minimum lead time                soft
   7. abono lead time                  soft (only when abono requested)
   8. grant deadline                   soft for privileged, hard otherwise
   9. overlap                          hard
  10. capacity                         hard
  11. fraction-count cap               hard (new fractions only)
  12. minimum size when split          hard
  13. residual balance 0 or >= 5       hard
  14. mandatory 14-day long fraction   hard

OVERRIDES:
  A soft failure is skipped when the caller is privileged AND has already
  confirmed the override (Context.OverrideConfirmed). A declined override is
  a terminal rejection for that attempt; there is no implicit retry.

SEE ALSO:
  - validator.go: runs the pipeline and normalizes the accepted fraction
  - errors.go: rejection codes and kinds
*/
package vacation

import "time"

// ruleInput is the frozen view a rule evaluates against. siblings and
// balance already exclude the fraction being edited, if any.
type ruleInput struct {
	employee *Employee
	period   *AccrualPeriod
	proposal Proposal
	ctx      Context

	end      Date
	siblings []VacationFraction
	balance  BalanceSummary
}

type ruleFunc func(in ruleInput) *Rejection

var pipeline = []ruleFunc{
	ruleProposalComplete,
	ruleWeekdayStart,
	rulePreHolidayStart,
	ruleSingleThirteenth,
	ruleStartBeforePeriodEnd,
	ruleLeadTime,
	ruleAbonoLeadTime,
	ruleDeadline,
	ruleOverlap,
	ruleCapacity,
	ruleFractionCount,
	ruleSplitMinimum,
	ruleResidualBalance,
	ruleLongFraction,
}

// 1. Presence/positivity.
func ruleProposalComplete(in ruleInput) *Rejection {
	if in.proposal.Start.IsZero() {
		return hardRejection(ReasonInvalidProposal, "start date is required")
	}
	if in.proposal.Days <= 0 {
		return hardRejection(ReasonInvalidProposal, "quantity of days must be positive, got %d", in.proposal.Days)
	}
	if in.proposal.AbonoDays < 0 {
		return hardRejection(ReasonInvalidProposal, "abono days must not be negative, got %d", in.proposal.AbonoDays)
	}
	return nil
}

// 2. Vacations may not begin immediately before the weekly rest day.
func ruleWeekdayStart(in ruleInput) *Rejection {
	wd := in.proposal.Start.Weekday()
	if wd == time.Friday || wd == time.Saturday {
		return hardRejection(ReasonWeekdayRestriction,
			"vacation may not start on %s (%s)", wd, in.proposal.Start)
	}
	return nil
}

// 3. Neither of the two days after the start may be a feriado or ponto
// facultativo applicable to the employee's unit.
func rulePreHolidayStart(in ruleInput) *Rejection {
	if h := in.ctx.Holidays.BlocksStart(in.proposal.Start, in.employee.Unit); h != nil {
		return hardRejection(ReasonPreHolidayStart,
			"start %s immediately precedes %s on %s", in.proposal.Start, h.Type, h.Date)
	}
	return nil
}

// 4. At most one 13th-salary advance per employee per calendar year, across
// all periods.
func ruleSingleThirteenth(in ruleInput) *Rejection {
	if !in.proposal.ThirteenthAdvance {
		return nil
	}
	year := in.proposal.Start.Year()
	for _, f := range in.employee.ActiveFractions(in.ctx.EditingFractionID) {
		if f.ThirteenthAdvance && f.Start.Year() == year {
			return hardRejection(ReasonDuplicateThirteenth,
				"13th-salary advance already taken in %d on the fraction starting %s", year, f.Start)
		}
	}
	return nil
}

// 5. Starting before the accrual period's own end is only allowed when a
// collective rule fully spanned by the fraction applies; otherwise soft.
func ruleStartBeforePeriodEnd(in ruleInput) *Rejection {
	if !in.proposal.Start.Before(in.period.End) {
		return nil
	}
	if rule := RuleFor(in.ctx.CollectiveRules, in.employee); rule != nil {
		fr := DateRange{Start: in.proposal.Start, End: in.end}
		if fr.Spans(rule.Range()) {
			return nil
		}
	}
	return softRejection(ReasonBeforePeriodEnd,
		"start %s precedes the accrual period end %s", in.proposal.Start, in.period.End)
}

// 6. Minimum lead time between today and the start.
func ruleLeadTime(in ruleInput) *Rejection {
	earliest := in.ctx.Today.AddDays(in.ctx.Config.MinLeadDays)
	if in.proposal.Start.Before(earliest) {
		return softRejection(ReasonInsufficientLead,
			"start %s is earlier than the minimum lead time (earliest allowed %s)",
			in.proposal.Start, earliest)
	}
	return nil
}

// 7. Abono requests must arrive early enough before the grant deadline.
func ruleAbonoLeadTime(in ruleInput) *Rejection {
	if in.proposal.AbonoDays <= 0 {
		return nil
	}
	cutoff := in.period.Deadline.AddDays(-in.ctx.Config.MinAbonoLeadDays)
	if in.ctx.Today.After(cutoff) {
		return softRejection(ReasonAbonoLeadExpired,
			"abono requests for this period closed on %s", cutoff)
	}
	return nil
}

// 8. The fraction must start strictly before the grant deadline. Privileged
// callers may override with confirmation; ordinary callers have no path.
func ruleDeadline(in ruleInput) *Rejection {
	if in.proposal.Start.Before(in.period.Deadline) {
		return nil
	}
	if in.ctx.Privileged {
		return softRejection(ReasonPastDeadline,
			"start %s is not before the grant deadline %s", in.proposal.Start, in.period.Deadline)
	}
	return hardRejection(ReasonPastDeadline,
		"start %s is not before the grant deadline %s", in.proposal.Start, in.period.Deadline)
}

// 9. No intersection with any other active fraction in the same period.
func ruleOverlap(in ruleInput) *Rejection {
	proposed := DateRange{Start: in.proposal.Start, End: in.end}
	for _, f := range in.siblings {
		if proposed.Intersects(f.Range()) {
			return hardRejection(ReasonOverlap,
				"proposed %s overlaps fraction %d %s", proposed, f.Sequence, f.Range())
		}
	}
	return nil
}

// 10. Vacation plus abono days must fit the remaining balance.
func ruleCapacity(in ruleInput) *Rejection {
	requested := in.proposal.Days + in.proposal.AbonoDays
	if requested > in.balance.Remaining {
		return hardRejection(ReasonInsufficientBalance,
			"requested %d days but only %d remain", requested, in.balance.Remaining)
	}
	return nil
}

// 11. New fractions only: the active fraction count must stay within the cap.
func ruleFractionCount(in ruleInput) *Rejection {
	if in.ctx.EditingFractionID != "" {
		return nil
	}
	if len(in.siblings)+1 > in.ctx.Config.MaxFractions {
		return hardRejection(ReasonTooManyFractions,
			"period already has %d fractions (maximum %d)", len(in.siblings), in.ctx.Config.MaxFractions)
	}
	return nil
}

// 12. Once the period is split, every active fraction must meet the legal
// minimum size.
func ruleSplitMinimum(in ruleInput) *Rejection {
	if len(in.siblings) == 0 {
		return nil
	}
	min := in.ctx.Config.MinFractionDays
	if in.proposal.Days < min {
		return hardRejection(ReasonFractionBelowMinimum,
			"fraction of %d days is below the legal minimum of %d when the period is split",
			in.proposal.Days, min)
	}
	for _, f := range in.siblings {
		if f.Days < min {
			return hardRejection(ReasonFractionBelowMinimum,
				"existing fraction %d of %d days is below the legal minimum of %d",
				f.Sequence, f.Days, min)
		}
	}
	return nil
}

// 13. The balance left behind must be exactly zero or at least the legal
// minimum; a dangling 1-4 day remainder can never be scheduled.
func ruleResidualBalance(in ruleInput) *Rejection {
	residual := in.balance.Remaining - in.proposal.Days - in.proposal.AbonoDays
	if residual != 0 && residual < in.ctx.Config.MinFractionDays {
		return hardRejection(ReasonResidualBelowMinimum,
			"request would leave a residual of %d days (must be 0 or at least %d)",
			residual, in.ctx.Config.MinFractionDays)
	}
	return nil
}

// 14. The period must always retain the possibility of one uninterrupted
// long fraction before the balance is exhausted.
func ruleLongFraction(in ruleInput) *Rejection {
	long := in.ctx.Config.MinLongFractionDays
	if in.proposal.Days >= long {
		return nil
	}
	for _, f := range in.siblings {
		if f.Days >= long {
			return nil
		}
	}
	residual := in.balance.Remaining - in.proposal.Days - in.proposal.AbonoDays
	if residual == 0 {
		return hardRejection(ReasonMissingLongFraction,
			"exhausting the balance without any fraction of at least %d days", long)
	}
	if residual > 0 && residual < long {
		return hardRejection(ReasonMissingLongFraction,
			"a residual of %d days can no longer hold a fraction of at least %d days", residual, long)
	}
	return nil
}
