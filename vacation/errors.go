/*
errors.go - Rejection taxonomy for the entitlement engine

PURPOSE:
  All rejection and error types in one place. Business rejections are
  returned values with stable reason codes; the only plain errors are
  programmer-error conditions (e.g., validating a period against the wrong
  employee).

REJECTION KINDS:
  Hard rejections never pass: malformed input, weekday restriction,
  pre-holiday blackout, duplicate 13th advance, overlap, capacity,
  fraction-count cap, sub-minimum split, residual-balance violation,
  missing mandatory long fraction.

  Soft rejections may be overridden by a privileged caller who explicitly
  confirms: pre-period-end start without a covering collective rule,
  insufficient lead time, insufficient abono lead time, start at/after the
  deadline (privileged callers only; for ordinary callers the deadline is
  hard, with no override path).

USAGE:
  accepted, err := vacation.Validate(emp, period, proposal, ctx)
  var rej *vacation.Rejection
  if errors.As(err, &rej) && rej.Overridable() {
      // ask the caller to confirm, then re-validate with
      // ctx.OverrideConfirmed = true
  }

SEE ALSO:
  - rules.go: produces these rejections
  - validator.go: composes the rule pipeline
*/
package vacation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHardRejection anchors every non-overridable rejection.
	ErrHardRejection = errors.New("hard rejection")

	// ErrSoftRejection anchors every overridable rejection.
	ErrSoftRejection = errors.New("soft rejection")

	// ErrPeriodMismatch is a programmer error: the accrual period does not
	// belong to the employee it was validated against.
	ErrPeriodMismatch = errors.New("accrual period does not belong to employee")
)

// =============================================================================
// REASON CODES - Stable identifiers carried by every rejection
// =============================================================================

type ReasonCode string

const (
	ReasonInvalidProposal      ReasonCode = "invalid_proposal"
	ReasonWeekdayRestriction   ReasonCode = "weekday_restriction"
	ReasonPreHolidayStart      ReasonCode = "pre_holiday_start"
	ReasonDuplicateThirteenth  ReasonCode = "duplicate_thirteenth_advance"
	ReasonBeforePeriodEnd      ReasonCode = "start_before_period_end"
	ReasonInsufficientLead     ReasonCode = "insufficient_lead_time"
	ReasonAbonoLeadExpired     ReasonCode = "abono_lead_time_expired"
	ReasonPastDeadline         ReasonCode = "start_past_deadline"
	ReasonOverlap              ReasonCode = "fraction_overlap"
	ReasonInsufficientBalance  ReasonCode = "insufficient_balance"
	ReasonTooManyFractions     ReasonCode = "fraction_limit_exceeded"
	ReasonFractionBelowMinimum ReasonCode = "fraction_below_minimum"
	ReasonResidualBelowMinimum ReasonCode = "residual_below_minimum"
	ReasonMissingLongFraction  ReasonCode = "missing_long_fraction"
)

// =============================================================================
// REJECTION - Structured business refusal
// =============================================================================

type RejectionKind string

const (
	RejectionHard RejectionKind = "hard"
	RejectionSoft RejectionKind = "soft"
)

// Rejection is a typed validation refusal. The message interpolates the
// specific conflicting date or value; the code is stable for clients.
type Rejection struct {
	Code    ReasonCode
	Kind    RejectionKind
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func (r *Rejection) Unwrap() error {
	if r.Kind == RejectionSoft {
		return ErrSoftRejection
	}
	return ErrHardRejection
}

// Overridable reports whether a privileged caller may confirm and retry.
func (r *Rejection) Overridable() bool {
	return r.Kind == RejectionSoft
}

func hardRejection(code ReasonCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Kind: RejectionHard, Message: fmt.Sprintf(format, args...)}
}

func softRejection(code ReasonCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Kind: RejectionSoft, Message: fmt.Sprintf(format, args...)}
}

// IsRejection extracts the structured rejection from an error chain.
func IsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
