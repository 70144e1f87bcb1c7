package vacation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/vacation"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func date(y int, m time.Month, d int) vacation.Date {
	return vacation.NewDate(y, m, d)
}

// testPeriod returns a 30-day period acquired 2024-06-01..2025-05-31 with a
// grant deadline one year after the acquisition window closes.
func testPeriod(fractions ...vacation.VacationFraction) vacation.AccrualPeriod {
	return vacation.AccrualPeriod{
		ID:         "per-1",
		EmployeeID: "emp-1",
		Start:      date(2024, time.June, 1),
		End:        date(2025, time.May, 31),
		Deadline:   date(2026, time.May, 31),
		TotalDays:  30,
		Status:     vacation.PeriodPlanning,
		AbonoBasis: vacation.AbonoBasisSystem,
		Fractions:  fractions,
	}
}

func fraction(id string, seq int, start vacation.Date, days, abono int, status vacation.FractionStatus) vacation.VacationFraction {
	return vacation.VacationFraction{
		ID:        id,
		PeriodID:  "per-1",
		Sequence:  seq,
		Start:     start,
		Days:      days,
		AbonoDays: abono,
		Status:    status,
	}
}

// =============================================================================
// BALANCE DERIVATION
// =============================================================================

func TestComputeBalance_EmptyPeriod(t *testing.T) {
	p := testPeriod()

	b := vacation.ComputeBalance(&p, "")

	assert.Equal(t, 0, b.UsedDays)
	assert.Equal(t, 0, b.AbonoDays)
	assert.Equal(t, 30, b.Remaining)
}

func TestComputeBalance_SumsActiveFractions(t *testing.T) {
	// GIVEN: 15 scheduled days and a 5-day fraction carrying 3 abono days
	p := testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 5, 3, vacation.FractionPlanned),
	)

	b := vacation.ComputeBalance(&p, "")

	assert.Equal(t, 20, b.UsedDays)
	assert.Equal(t, 3, b.AbonoDays)
	assert.Equal(t, 7, b.Remaining)
}

func TestComputeBalance_ExcludesCanceledAndRejected(t *testing.T) {
	p := testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionCanceled),
		fraction("f-2", 2, date(2025, time.November, 3), 10, 0, vacation.FractionRejected),
		fraction("f-3", 3, date(2025, time.December, 1), 5, 0, vacation.FractionEnjoyed),
	)

	b := vacation.ComputeBalance(&p, "")

	assert.Equal(t, 5, b.UsedDays)
	assert.Equal(t, 25, b.Remaining)
}

func TestComputeBalance_ExcludesFractionBeingEdited(t *testing.T) {
	p := testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 10, 0, vacation.FractionScheduled),
	)

	b := vacation.ComputeBalance(&p, "f-1")

	assert.Equal(t, 10, b.UsedDays)
	assert.Equal(t, 20, b.Remaining)
}

func TestComputeBalance_NeverFailsWhenOverAllocated(t *testing.T) {
	// GIVEN: A period over-allocated beyond its entitlement
	// THEN: Remaining goes negative instead of failing; enforcement is the
	//       validator's job, not this function's
	p := testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 25, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.December, 1), 10, 0, vacation.FractionScheduled),
	)

	b := vacation.ComputeBalance(&p, "")

	assert.Equal(t, -5, b.Remaining)
}

func TestComputeBalance_CountsFractionsWithoutID(t *testing.T) {
	// A caller-built snapshot may carry fractions that were never persisted
	// and thus have no ID. Excluding nothing must still count them.
	p := testPeriod(
		fraction("", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
	)

	b := vacation.ComputeBalance(&p, "")

	assert.Equal(t, 15, b.UsedDays)
	assert.Equal(t, 15, b.Remaining)
}

func TestActiveFractions_EmptyExcludeIDSkipsNothing(t *testing.T) {
	p := testPeriod(
		fraction("", 1, date(2025, time.October, 6), 15, 0, vacation.FractionScheduled),
		fraction("f-2", 2, date(2025, time.November, 3), 5, 0, vacation.FractionScheduled),
	)
	emp := vacation.Employee{ID: "emp-1", Active: true, Periods: []vacation.AccrualPeriod{p}}

	assert.Len(t, p.ActiveFractions(""), 2)
	assert.Len(t, emp.ActiveFractions(""), 2)

	// A concrete exclusion still removes exactly the named fraction.
	assert.Len(t, p.ActiveFractions("f-2"), 1)
	assert.Equal(t, "", p.ActiveFractions("f-2")[0].ID)
}

func TestComputeBalance_Idempotent(t *testing.T) {
	p := testPeriod(
		fraction("f-1", 1, date(2025, time.October, 6), 15, 2, vacation.FractionScheduled),
	)

	first := vacation.ComputeBalance(&p, "")
	second := vacation.ComputeBalance(&p, "")

	assert.Equal(t, first, second)
}
