/*
Package vacation implements the statutory vacation entitlement engine.

PURPOSE:
  This package contains the domain model and algorithms for managing annual
  vacation entitlement under CLT-style rules: each employee accrues a fixed
  balance per acquisition period, which must be scheduled into up to three
  non-overlapping fractions before the grant deadline, subject to lead-time,
  fractionation and cash-out (abono) constraints.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: identity, org attributes and owned accrual periods
  - AccrualPeriod: one 12-month acquisition window with its balance
  - VacationFraction: one contiguous scheduled block of days
  - Config: global policy constants (minimums, lead times, caps)

DESIGN PRINCIPLES:
  1. Purity: everything here is computed over a caller-supplied snapshot;
     the engine performs no I/O and never reads the wall clock
  2. Closed enumerations: statuses are typed string constants, matched
     exhaustively by consumers
  3. Returned rejections: expected business failures are values, not panics

SEE ALSO:
  - balance.go: used/abono/remaining derivation for a period
  - abono.go: cash-out allowance computation
  - validator.go: the ordered rule pipeline for a proposed fraction
  - collective.go: bulk eligibility simulation for group vacations
*/
package vacation

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is the unit of entitlement. Organizational attributes are used
// only for holiday and collective-rule scoping; hierarchy editing is an
// external concern.
type Employee struct {
	ID             string
	Name           string
	HireDate       Date
	Unit           string
	Area           string
	Department     string
	HierarchyLevel int
	ManagerID      string
	Active         bool

	Periods []AccrualPeriod
	Leaves  []Leave
}

// ActiveFractions returns every non-canceled, non-rejected fraction across
// all of the employee's accrual periods, skipping the given fraction ID
// (empty string skips nothing).
func (e *Employee) ActiveFractions(excludeID string) []VacationFraction {
	var out []VacationFraction
	for _, p := range e.Periods {
		for _, f := range p.Fractions {
			if !f.Active() || (excludeID != "" && f.ID == excludeID) {
				continue
			}
			out = append(out, f)
		}
	}
	return out
}

// Leave is a read-only absence record (medical, maternity, ...). The engine
// receives it as input and never mutates it.
type Leave struct {
	ID    string
	Type  LeaveType
	Start Date
	End   Date
}

type LeaveType string

const (
	LeaveMedical   LeaveType = "medical"
	LeaveMaternity LeaveType = "maternity"
	LeaveOther     LeaveType = "other"
)

// =============================================================================
// ACCRUAL PERIOD
// =============================================================================

// PeriodStatus is the workflow state of an accrual period.
type PeriodStatus string

const (
	PeriodPlanning       PeriodStatus = "planning"
	PeriodPendingManager PeriodStatus = "pending_manager"
	PeriodPendingRH      PeriodStatus = "pending_rh"
	PeriodScheduled      PeriodStatus = "scheduled"
	PeriodRejected       PeriodStatus = "rejected"
	PeriodEnjoyed        PeriodStatus = "enjoyed"
)

// AbonoBasis selects which amount the one-third cash-out allowance is
// computed from.
type AbonoBasis string

const (
	// AbonoBasisSystem defers to Config.DefaultAbonoBasis.
	AbonoBasisSystem AbonoBasis = "system"
	// AbonoBasisInitial sizes the allowance from the period's total
	// entitlement; one grant per period.
	AbonoBasisInitial AbonoBasis = "initial_balance"
	// AbonoBasisCurrent recomputes the allowance from the live remaining
	// balance on every request.
	AbonoBasisCurrent AbonoBasis = "current_balance"
)

// AccrualPeriod is one acquisition window. The window boundaries, deadline
// (limite de concessão) and total entitlement are supplied data; the engine
// never derives them.
type AccrualPeriod struct {
	ID         string
	EmployeeID string
	Start      Date
	End        Date
	Deadline   Date
	TotalDays  int
	Status     PeriodStatus
	AbonoBasis AbonoBasis

	Fractions []VacationFraction
}

// ActiveFractions returns the period's non-canceled, non-rejected fractions,
// skipping the given fraction ID (empty string skips nothing).
func (p *AccrualPeriod) ActiveFractions(excludeID string) []VacationFraction {
	var out []VacationFraction
	for _, f := range p.Fractions {
		if !f.Active() || (excludeID != "" && f.ID == excludeID) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Fraction returns the fraction with the given ID, or nil.
func (p *AccrualPeriod) Fraction(id string) *VacationFraction {
	for i := range p.Fractions {
		if p.Fractions[i].ID == id {
			return &p.Fractions[i]
		}
	}
	return nil
}

// =============================================================================
// VACATION FRACTION
// =============================================================================

// FractionStatus is the workflow state of a scheduled fraction.
type FractionStatus string

const (
	FractionPlanned        FractionStatus = "planned"
	FractionScheduled      FractionStatus = "scheduled"
	FractionEnjoying       FractionStatus = "enjoying"
	FractionEnjoyed        FractionStatus = "enjoyed"
	FractionCanceled       FractionStatus = "canceled"
	FractionPendingManager FractionStatus = "pending_manager"
	FractionPendingRH      FractionStatus = "pending_rh"
	FractionRejected       FractionStatus = "rejected"
)

// CountsTowardBalance reports whether a fraction in this status consumes
// balance and occupies calendar space. Exhaustive on purpose: adding a new
// status forces a decision here.
func (s FractionStatus) CountsTowardBalance() bool {
	switch s {
	case FractionPlanned, FractionScheduled, FractionEnjoying, FractionEnjoyed,
		FractionPendingManager, FractionPendingRH:
		return true
	case FractionCanceled, FractionRejected:
		return false
	}
	return false
}

// VacationFraction is one contiguous block of vacation days carved out of a
// period's balance. End is derived, never stored independently.
type VacationFraction struct {
	ID                string
	PeriodID          string
	Sequence          int // 1-based slot within the period
	Start             Date
	Days              int // quantity of vacation days
	AbonoDays         int // cash-out days, 0 if none
	ThirteenthAdvance bool
	Status            FractionStatus
}

// End returns the inclusive last day of the fraction.
func (f VacationFraction) End() Date {
	return f.Start.AddDays(f.Days - 1)
}

// Range returns the inclusive [start, end] range of the fraction.
func (f VacationFraction) Range() DateRange {
	return DateRange{Start: f.Start, End: f.End()}
}

// Active reports whether the fraction counts for balance and overlap checks.
func (f VacationFraction) Active() bool {
	return f.Status.CountsTowardBalance()
}

// =============================================================================
// CONFIG - Global policy constants
// =============================================================================

// Config carries the organization-wide policy constants. It is supplied on
// every call; the engine holds no globals.
type Config struct {
	// AllowedFractionDays is the menu of day counts offered to the user when
	// scheduling (presentation hint; the legal minimums below are what the
	// validator enforces).
	AllowedFractionDays []int

	// DefaultAbonoBasis applies when a period's own basis is "system".
	DefaultAbonoBasis AbonoBasis

	// MinLeadDays is the minimum number of days between today and a
	// fraction's start.
	MinLeadDays int

	// MinAbonoLeadDays is measured backward from the period's deadline:
	// abono requests must arrive at least this many days before it.
	MinAbonoLeadDays int

	// MaxFractions caps active fractions per period.
	MaxFractions int

	// MinFractionDays is the legal minimum size of any fraction once the
	// period is split.
	MinFractionDays int

	// MinLongFractionDays is the legal minimum for the mandatory single
	// uninterrupted "long" fraction.
	MinLongFractionDays int
}

// DefaultConfig returns the statutory defaults.
func DefaultConfig() Config {
	return Config{
		AllowedFractionDays: []int{5, 10, 14, 15, 20, 30},
		DefaultAbonoBasis:   AbonoBasisCurrent,
		MinLeadDays:         35,
		MinAbonoLeadDays:    60,
		MaxFractions:        3,
		MinFractionDays:     5,
		MinLongFractionDays: 14,
	}
}
