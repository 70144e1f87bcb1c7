/*
validator.go - Entry point of the fraction validation pipeline

PURPOSE:
  Decides whether a proposed (or edited) vacation fraction may be committed.
  Returns either the accepted, normalized fraction payload or a structured
  rejection; the caller persists.

CONTRACT:
  Validate(employee, period, proposal, ctx) -> (*AcceptedFraction, error)

  The error, when non-nil, is either *Rejection (business refusal) or
  ErrPeriodMismatch (programmer error: period not owned by employee).

EDITING:
  Set Context.EditingFractionID to re-run the full pipeline for an existing
  fraction; overlap, capacity, count and split checks then ignore the
  fraction's own previous values, and its sequence number is preserved.

CONCURRENCY:
  The pipeline is only sound against a frozen view of the period's
  fractions. Commits against the same period must be serialized by the
  persistence collaborator (one in-flight commit per period).

SEE ALSO:
  - rules.go: the rules themselves, in pipeline order
  - balance.go: the remaining-balance derivation the rules consume
*/
package vacation

// Context carries everything the rules need besides the employee snapshot.
// Today is caller-supplied; the engine never reads the system clock.
type Context struct {
	Today           Date
	Config          Config
	Holidays        HolidayCalendar
	CollectiveRules []CollectiveRule

	// Privileged marks a caller allowed to override soft rejections.
	Privileged bool

	// OverrideConfirmed is the explicit confirmation signal: soft failures
	// only pass when the caller is privileged AND has confirmed. A declined
	// override is a terminal rejection for that attempt.
	OverrideConfirmed bool

	// EditingFractionID excludes an existing fraction from self-checks when
	// the proposal edits it. Empty for new fractions.
	EditingFractionID string
}

// Proposal is a requested vacation fraction before validation.
type Proposal struct {
	Start             Date
	Days              int
	AbonoDays         int
	ThirteenthAdvance bool
}

// AcceptedFraction is the normalized payload returned on success. The
// persistence collaborator assigns the ID.
type AcceptedFraction struct {
	PeriodID          string
	Sequence          int
	Start             Date
	End               Date
	Days              int
	AbonoDays         int
	ThirteenthAdvance bool
	Status            FractionStatus
}

// Validate runs the ordered rule pipeline over a frozen snapshot.
//
// The first failing hard rule aborts. Soft failures abort unless the caller
// is privileged and has confirmed the override.
func Validate(employee *Employee, period *AccrualPeriod, proposal Proposal, ctx Context) (*AcceptedFraction, error) {
	if !ownsPeriod(employee, period) {
		return nil, ErrPeriodMismatch
	}

	in := ruleInput{
		employee: employee,
		period:   period,
		proposal: proposal,
		ctx:      ctx,
		end:      proposal.Start.AddDays(proposal.Days - 1),
		siblings: period.ActiveFractions(ctx.EditingFractionID),
		balance:  ComputeBalance(period, ctx.EditingFractionID),
	}

	for _, check := range pipeline {
		rej := check(in)
		if rej == nil {
			continue
		}
		if rej.Kind == RejectionSoft && ctx.Privileged && ctx.OverrideConfirmed {
			continue
		}
		return nil, rej
	}

	return &AcceptedFraction{
		PeriodID:          period.ID,
		Sequence:          nextSequence(period, ctx.EditingFractionID),
		Start:             proposal.Start,
		End:               in.end,
		Days:              proposal.Days,
		AbonoDays:         proposal.AbonoDays,
		ThirteenthAdvance: proposal.ThirteenthAdvance,
		Status:            FractionScheduled,
	}, nil
}

func ownsPeriod(e *Employee, p *AccrualPeriod) bool {
	if p.EmployeeID != "" && p.EmployeeID != e.ID {
		return false
	}
	for i := range e.Periods {
		if e.Periods[i].ID == p.ID {
			return true
		}
	}
	return false
}

// nextSequence returns the edited fraction's own sequence, or the lowest
// free 1-based slot among the period's active fractions.
func nextSequence(p *AccrualPeriod, editingID string) int {
	if editingID != "" {
		if f := p.Fraction(editingID); f != nil {
			return f.Sequence
		}
	}
	taken := map[int]bool{}
	for _, f := range p.ActiveFractions(editingID) {
		taken[f.Sequence] = true
	}
	seq := 1
	for taken[seq] {
		seq++
	}
	return seq
}
