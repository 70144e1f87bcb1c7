package vacation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/vacation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testEmployee(p vacation.AccrualPeriod) *vacation.Employee {
	return &vacation.Employee{
		ID:       "emp-1",
		Name:     "Ana Souza",
		HireDate: date(2020, time.January, 6),
		Unit:     "Divisão de Tecnologia",
		Active:   true,
		Periods:  []vacation.AccrualPeriod{p},
	}
}

// baseContext: today is Monday 2025-09-01, so the 35-day lead time allows
// starts from 2025-10-06 (a Monday) onward.
func baseContext() vacation.Context {
	return vacation.Context{
		Today:  date(2025, time.September, 1),
		Config: vacation.DefaultConfig(),
	}
}

func mustReject(t *testing.T, err error, code vacation.ReasonCode, kind vacation.RejectionKind) *vacation.Rejection {
	t.Helper()
	require.Error(t, err)
	rej, ok := vacation.IsRejection(err)
	require.True(t, ok, "expected a structured rejection, got %v", err)
	assert.Equal(t, code, rej.Code)
	assert.Equal(t, kind, rej.Kind)
	return rej
}

// =============================================================================
// ACCEPTANCE
// =============================================================================

func TestValidate_FreshPeriod_FifteenDays_Accepted(t *testing.T) {
	// GIVEN: 30-day period with no fractions
	// WHEN: Requesting 15 days starting on a Monday with lead time satisfied
	// THEN: Accepted, normalized with sequence 1 and status scheduled
	emp := testEmployee(testPeriod())

	accepted, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6),
		Days:  15,
	}, baseContext())

	require.NoError(t, err)
	assert.Equal(t, 1, accepted.Sequence)
	assert.Equal(t, date(2025, time.October, 20), accepted.End)
	assert.Equal(t, vacation.FractionScheduled, accepted.Status)

	// Committing the accepted fraction leaves 15 days remaining.
	p := emp.Periods[0]
	p.Fractions = append(p.Fractions, vacation.VacationFraction{
		ID: "f-new", Sequence: accepted.Sequence, Start: accepted.Start,
		Days: accepted.Days, AbonoDays: accepted.AbonoDays, Status: accepted.Status,
	})
	assert.Equal(t, 15, vacation.ComputeBalance(&p, "").Remaining)
}

func TestValidate_SequenceFillsLowestFreeSlot(t *testing.T) {
	// GIVEN: active fractions occupying slots 1 and 3
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 14, 0, vacation.FractionScheduled),
		fraction("f-3", 3, date(2025, time.December, 1), 10, 0, vacation.FractionScheduled),
	))

	accepted, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.November, 3),
		Days:  6,
	}, baseContext())

	require.NoError(t, err)
	assert.Equal(t, 2, accepted.Sequence)
}

// =============================================================================
// HARD RULES
// =============================================================================

func TestValidate_MissingStartOrDays_Rejected(t *testing.T) {
	emp := testEmployee(testPeriod())

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{Days: 15}, baseContext())
	mustReject(t, err, vacation.ReasonInvalidProposal, vacation.RejectionHard)

	_, err = vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6),
	}, baseContext())
	mustReject(t, err, vacation.ReasonInvalidProposal, vacation.RejectionHard)
}

func TestValidate_SaturdayStart_RejectedRegardlessOfPrivilege(t *testing.T) {
	// GIVEN: a privileged caller that already confirmed the override
	// THEN: the weekday restriction still blocks (hard rules never pass)
	emp := testEmployee(testPeriod())
	ctx := baseContext()
	ctx.Privileged = true
	ctx.OverrideConfirmed = true

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 11), // Saturday
		Days:  15,
	}, ctx)

	mustReject(t, err, vacation.ReasonWeekdayRestriction, vacation.RejectionHard)
}

func TestValidate_FridayStart_Rejected(t *testing.T) {
	emp := testEmployee(testPeriod())

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 10), // Friday
		Days:  15,
	}, baseContext())

	mustReject(t, err, vacation.ReasonWeekdayRestriction, vacation.RejectionHard)
}

func TestValidate_PreHolidayBlackout(t *testing.T) {
	emp := testEmployee(testPeriod())

	// Holiday on the next day blocks.
	ctx := baseContext()
	ctx.Holidays = vacation.HolidayCalendar{
		{ID: "h-1", Date: date(2025, time.October, 7), Type: vacation.HolidayFeriado},
	}
	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6), Days: 15,
	}, ctx)
	mustReject(t, err, vacation.ReasonPreHolidayStart, vacation.RejectionHard)

	// Ponto facultativo on the day after next also blocks.
	ctx.Holidays = vacation.HolidayCalendar{
		{ID: "h-2", Date: date(2025, time.October, 8), Type: vacation.HolidayPontoFacultativo},
	}
	_, err = vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6), Days: 15,
	}, ctx)
	mustReject(t, err, vacation.ReasonPreHolidayStart, vacation.RejectionHard)
}

func TestValidate_PreHolidayBlackout_ScopingAndRecesso(t *testing.T) {
	emp := testEmployee(testPeriod())
	proposal := vacation.Proposal{Start: date(2025, time.October, 6), Days: 15}

	// A holiday scoped to another unit does not block.
	ctx := baseContext()
	ctx.Holidays = vacation.HolidayCalendar{
		{ID: "h-1", Date: date(2025, time.October, 7), Type: vacation.HolidayFeriado, Unit: "Divisão de Saúde"},
	}
	_, err := vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	require.NoError(t, err)

	// Unit names match accent-insensitively.
	ctx.Holidays = vacation.HolidayCalendar{
		{ID: "h-2", Date: date(2025, time.October, 7), Type: vacation.HolidayFeriado, Unit: "divisao de tecnologia"},
	}
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	mustReject(t, err, vacation.ReasonPreHolidayStart, vacation.RejectionHard)

	// Recesso days never trigger the blackout.
	ctx.Holidays = vacation.HolidayCalendar{
		{ID: "h-3", Date: date(2025, time.October, 7), Type: vacation.HolidayRecesso},
	}
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	require.NoError(t, err)
}

func TestValidate_DuplicateThirteenthAdvance_SameYear_Rejected(t *testing.T) {
	existing := fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled)
	existing.ThirteenthAdvance = true
	emp := testEmployee(testPeriod(existing))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start:             date(2025, time.November, 3),
		Days:              15,
		ThirteenthAdvance: true,
	}, baseContext())

	mustReject(t, err, vacation.ReasonDuplicateThirteenth, vacation.RejectionHard)
}

func TestValidate_ThirteenthAdvance_DifferentYear_Accepted(t *testing.T) {
	existing := fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled)
	existing.ThirteenthAdvance = true
	emp := testEmployee(testPeriod(existing))

	accepted, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start:             date(2026, time.January, 5),
		Days:              15,
		ThirteenthAdvance: true,
	}, baseContext())

	require.NoError(t, err)
	assert.True(t, accepted.ThirteenthAdvance)
}

func TestValidate_Overlap_Rejected(t *testing.T) {
	// GIVEN: 15 days scheduled from October 6 (ends October 20)
	// WHEN: Requesting a fraction starting inside that range
	// THEN: HardRejection(overlap) naming the colliding range
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 20),
		Days:  10,
	}, baseContext())

	rej := mustReject(t, err, vacation.ReasonOverlap, vacation.RejectionHard)
	assert.Contains(t, rej.Message, "2025-10-06")
}

func TestValidate_CapacityExceeded_Rejected(t *testing.T) {
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 20, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  15,
	}, baseContext())

	rej := mustReject(t, err, vacation.ReasonInsufficientBalance, vacation.RejectionHard)
	assert.Contains(t, rej.Message, "10")
}

func TestValidate_AbonoCountsAgainstCapacity(t *testing.T) {
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 20, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start:     date(2025, time.December, 1),
		Days:      7,
		AbonoDays: 4,
	}, baseContext())

	mustReject(t, err, vacation.ReasonInsufficientBalance, vacation.RejectionHard)
}

func TestValidate_FractionCountCap_Rejected(t *testing.T) {
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 14, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 6, 0, vacation.FractionScheduled),
		fraction("f-3", 3, date(2025, time.December, 1), 5, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2026, time.January, 5),
		Days:  5,
	}, baseContext())

	mustReject(t, err, vacation.ReasonTooManyFractions, vacation.RejectionHard)
}

func TestValidate_SplitBelowMinimum_Rejected(t *testing.T) {
	// Proposed fraction below 5 days once the period is split.
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 20, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  4,
	}, baseContext())

	mustReject(t, err, vacation.ReasonFractionBelowMinimum, vacation.RejectionHard)
}

func TestValidate_ExistingFractionBelowMinimum_Rejected(t *testing.T) {
	// An existing sub-minimum fraction also blocks the split.
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 4, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  15,
	}, baseContext())

	mustReject(t, err, vacation.ReasonFractionBelowMinimum, vacation.RejectionHard)
}

func TestValidate_ResidualOfThreeDays_Rejected(t *testing.T) {
	// GIVEN: 30-day period, request of 27 days
	// THEN: HardRejection(residual-below-minimum), residual of 3 can never
	//       be scheduled
	emp := testEmployee(testPeriod())

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6),
		Days:  27,
	}, baseContext())

	rej := mustReject(t, err, vacation.ReasonResidualBelowMinimum, vacation.RejectionHard)
	assert.Contains(t, rej.Message, "3")
}

func TestValidate_MissingLongFraction_ResidualBetween1And13_Rejected(t *testing.T) {
	// GIVEN: a 10-day fraction, no fraction of 14+ days
	// WHEN: requesting 10 more days, leaving a residual of 10
	// THEN: rejected; a 14-day uninterrupted fraction would become impossible
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 10, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  10,
	}, baseContext())

	mustReject(t, err, vacation.ReasonMissingLongFraction, vacation.RejectionHard)
}

func TestValidate_MissingLongFraction_ZeroResidual_Rejected(t *testing.T) {
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 10, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 10, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  10,
	}, baseContext())

	mustReject(t, err, vacation.ReasonMissingLongFraction, vacation.RejectionHard)
}

func TestValidate_LongFractionSatisfiedByProposal(t *testing.T) {
	// A 14-day proposal satisfies the long-fraction requirement on its own.
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 10, 0, vacation.FractionScheduled),
	))

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.December, 1),
		Days:  14,
	}, baseContext())

	require.NoError(t, err)
}

// =============================================================================
// SOFT RULES AND OVERRIDES
// =============================================================================

func TestValidate_StartBeforePeriodEnd_SoftWithoutCollectiveRule(t *testing.T) {
	emp := testEmployee(testPeriod())
	ctx := baseContext()
	ctx.Today = date(2025, time.March, 1)

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.April, 7), // before the period end of May 31
		Days:  15,
	}, ctx)

	mustReject(t, err, vacation.ReasonBeforePeriodEnd, vacation.RejectionSoft)
}

func TestValidate_StartBeforePeriodEnd_CoveringCollectiveRulePasses(t *testing.T) {
	// GIVEN: a collective rule window fully spanned by the fraction
	// THEN: the pre-period-end start passes without any override
	emp := testEmployee(testPeriod())
	ctx := baseContext()
	ctx.Today = date(2025, time.March, 1)
	ctx.CollectiveRules = []vacation.CollectiveRule{{
		ID:    "cr-1",
		Start: date(2025, time.April, 10),
		End:   date(2025, time.April, 18),
		Units: []string{"Divisão de Tecnologia"},
	}}

	accepted, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.April, 7),
		Days:  15, // ends April 21, spanning the rule window
	}, ctx)

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.April, 21), accepted.End)
}

func TestValidate_StartBeforePeriodEnd_RuleNotSpanned_StaysSoft(t *testing.T) {
	emp := testEmployee(testPeriod())
	ctx := baseContext()
	ctx.Today = date(2025, time.March, 1)
	ctx.CollectiveRules = []vacation.CollectiveRule{{
		ID:    "cr-1",
		Start: date(2025, time.April, 10),
		End:   date(2025, time.April, 25), // extends past the fraction's end
	}}

	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.April, 7),
		Days:  15,
	}, ctx)

	mustReject(t, err, vacation.ReasonBeforePeriodEnd, vacation.RejectionSoft)
}

func TestValidate_InsufficientLeadTime_SoftAndOverridable(t *testing.T) {
	emp := testEmployee(testPeriod())

	// Start only 7 days out; the minimum lead is 35.
	proposal := vacation.Proposal{Start: date(2025, time.September, 8), Days: 15}

	_, err := vacation.Validate(emp, &emp.Periods[0], proposal, baseContext())
	rej := mustReject(t, err, vacation.ReasonInsufficientLead, vacation.RejectionSoft)
	assert.True(t, rej.Overridable())

	// Privileged without confirmation: still rejected (no implicit retry).
	ctx := baseContext()
	ctx.Privileged = true
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	mustReject(t, err, vacation.ReasonInsufficientLead, vacation.RejectionSoft)

	// Privileged with explicit confirmation: passes.
	ctx.OverrideConfirmed = true
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	require.NoError(t, err)
}

func TestValidate_AbonoLeadTimeExpired_Soft(t *testing.T) {
	// GIVEN: today past deadline-60d (abono cutoff 2026-04-01)
	emp := testEmployee(testPeriod())
	ctx := baseContext()
	ctx.Today = date(2026, time.April, 15)

	proposal := vacation.Proposal{
		Start:     date(2026, time.May, 25),
		Days:      26,
		AbonoDays: 4,
	}

	_, err := vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	mustReject(t, err, vacation.ReasonAbonoLeadExpired, vacation.RejectionSoft)

	// Without abono the same request passes the abono lead rule.
	proposal.AbonoDays = 0
	proposal.Days = 30
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	require.NoError(t, err)
}

func TestValidate_Deadline_HardForOrdinary_SoftForPrivileged(t *testing.T) {
	emp := testEmployee(testPeriod())
	proposal := vacation.Proposal{Start: date(2026, time.June, 1), Days: 30}

	// Ordinary caller: hard, no override path.
	_, err := vacation.Validate(emp, &emp.Periods[0], proposal, baseContext())
	rej := mustReject(t, err, vacation.ReasonPastDeadline, vacation.RejectionHard)
	assert.False(t, rej.Overridable())

	// Privileged caller: soft until confirmed.
	ctx := baseContext()
	ctx.Privileged = true
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	mustReject(t, err, vacation.ReasonPastDeadline, vacation.RejectionSoft)

	ctx.OverrideConfirmed = true
	_, err = vacation.Validate(emp, &emp.Periods[0], proposal, ctx)
	require.NoError(t, err)
}

// =============================================================================
// EDITING
// =============================================================================

func TestValidate_Editing_ExcludesSelfFromChecks(t *testing.T) {
	// GIVEN: a scheduled 15-day fraction
	// WHEN: editing it to 20 days over the same dates
	// THEN: accepted; its own previous range and balance usage are ignored
	//       and its sequence is preserved
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
	))
	ctx := baseContext()
	ctx.EditingFractionID = "f-1"

	accepted, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 6),
		Days:  20,
	}, ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, accepted.Sequence)
	assert.Equal(t, 20, accepted.Days)
}

func TestValidate_Editing_StillChecksAgainstSiblings(t *testing.T) {
	emp := testEmployee(testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 14, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 10, 0, vacation.FractionScheduled),
	))
	ctx := baseContext()
	ctx.EditingFractionID = "f-2"

	// Moving f-2 onto f-1's dates still collides.
	_, err := vacation.Validate(emp, &emp.Periods[0], vacation.Proposal{
		Start: date(2025, time.October, 13),
		Days:  10,
	}, ctx)

	mustReject(t, err, vacation.ReasonOverlap, vacation.RejectionHard)
}

// =============================================================================
// PROGRAMMER ERRORS
// =============================================================================

func TestValidate_PeriodNotOwnedByEmployee(t *testing.T) {
	emp := testEmployee(testPeriod())
	foreign := testPeriod()
	foreign.ID = "per-other"
	foreign.EmployeeID = "emp-2"

	_, err := vacation.Validate(emp, &foreign, vacation.Proposal{
		Start: date(2025, time.October, 6),
		Days:  15,
	}, baseContext())

	require.Error(t, err)
	assert.True(t, errors.Is(err, vacation.ErrPeriodMismatch))
	_, isRejection := vacation.IsRejection(err)
	assert.False(t, isRejection)
}
