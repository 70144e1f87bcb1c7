/*
collective.go - Bulk eligibility simulation for group vacations

PURPOSE:
  Classifies every employee matching a filter against a proposed group
  vacation window, without mutating anything. Produces one verdict per
  candidate for administrator review; actual commits re-run the fraction
  validator per employee against a freshly read snapshot.

SEVERITY:
  eligible -> warning -> error, monotonic: a later check can only worsen a
  candidate's status, never improve it. The simulator itself never fails;
  every candidate always receives a verdict.

ORDERING:
  Output order matches input employee order. Sorting by severity is a
  presentation concern and is not done here.

SEE ALSO:
  - validator.go: the per-employee pipeline that commits reuse
  - balance.go: the per-period remaining balance this sums
*/
package vacation

import "fmt"

// =============================================================================
// INPUTS
// =============================================================================

// CollectiveWindow is the proposed group vacation interval, inclusive.
type CollectiveWindow struct {
	Start Date
	End   Date
}

// TotalDays returns the inclusive day count of the window.
func (w CollectiveWindow) TotalDays() int {
	return InclusiveDays(w.Start, w.End)
}

// CandidateFilter narrows which active employees are simulated. Empty
// fields match everything; unit/area/department names are compared
// accent-insensitively.
type CandidateFilter struct {
	Units       []string
	Areas       []string
	Departments []string
	EmployeeIDs []string
}

func (f CandidateFilter) matches(e *Employee) bool {
	if len(f.EmployeeIDs) > 0 && !containsExact(f.EmployeeIDs, e.ID) {
		return false
	}
	if len(f.Units) > 0 && !containsName(f.Units, e.Unit) {
		return false
	}
	if len(f.Areas) > 0 && !containsName(f.Areas, e.Area) {
		return false
	}
	if len(f.Departments) > 0 && !containsName(f.Departments, e.Department) {
		return false
	}
	return true
}

// =============================================================================
// VERDICTS
// =============================================================================

type VerdictStatus string

const (
	VerdictEligible VerdictStatus = "eligible"
	VerdictWarning  VerdictStatus = "warning"
	VerdictError    VerdictStatus = "error"
)

func severity(s VerdictStatus) int {
	switch s {
	case VerdictEligible:
		return 0
	case VerdictWarning:
		return 1
	case VerdictError:
		return 2
	}
	return 2
}

// CandidateVerdict is the simulation result for one employee.
type CandidateVerdict struct {
	EmployeeID   string
	Name         string
	Status       VerdictStatus
	Selected     bool
	TotalBalance int
	ProposedDays int
	Reasons      []string
}

// escalate worsens the verdict status; it never improves it.
func (v *CandidateVerdict) escalate(s VerdictStatus, reason string) {
	if severity(s) > severity(v.Status) {
		v.Status = s
	}
	v.Reasons = append(v.Reasons, reason)
}

// ClampProposedDays applies an administrator's downward edit, clamped to
// [0, TotalBalance].
func (v *CandidateVerdict) ClampProposedDays(days int) {
	if days < 0 {
		days = 0
	}
	if days > v.TotalBalance {
		days = v.TotalBalance
	}
	v.ProposedDays = days
}

// =============================================================================
// SIMULATOR
// =============================================================================

// SimulateCollective classifies every matching active employee for the
// proposed window. It mutates no state and commits nothing.
func SimulateCollective(employees []Employee, window CollectiveWindow, filter CandidateFilter, cfg Config, today Date) []CandidateVerdict {
	totalDays := window.TotalDays()

	var verdicts []CandidateVerdict
	for i := range employees {
		e := &employees[i]
		if !e.Active || !filter.matches(e) {
			continue
		}
		verdicts = append(verdicts, simulateCandidate(e, window, totalDays, cfg, today))
	}
	return verdicts
}

func simulateCandidate(e *Employee, window CollectiveWindow, totalDays int, cfg Config, today Date) CandidateVerdict {
	v := CandidateVerdict{
		EmployeeID: e.ID,
		Name:       e.Name,
		Status:     VerdictEligible,
		Selected:   true,
	}

	// Only periods whose grant deadline is still open contribute balance.
	// An over-allocated period (more committed days than entitlement in the
	// supplied data) contributes nothing rather than a negative amount.
	totalBalance := 0
	for i := range e.Periods {
		p := &e.Periods[i]
		if p.Deadline.After(today) {
			if remaining := ComputeBalance(p, "").Remaining; remaining > 0 {
				totalBalance += remaining
			}
		}
	}
	v.TotalBalance = totalBalance

	if e.HireDate.AddYears(1).After(window.Start) {
		v.escalate(VerdictWarning, fmt.Sprintf(
			"less than one year of tenure on %s (pro-rated entitlement)", window.Start))
	}

	if totalBalance == 0 {
		v.escalate(VerdictError, "no available balance")
		v.Selected = false
	} else if totalBalance < totalDays {
		v.escalate(VerdictWarning, fmt.Sprintf(
			"balance of %d days does not cover the %d-day window", totalBalance, totalDays))
	}

	daysToTake := totalDays
	if totalBalance < daysToTake {
		daysToTake = totalBalance
	}
	residual := totalBalance - daysToTake

	if residual > 0 && residual < cfg.MinFractionDays {
		v.escalate(VerdictWarning, fmt.Sprintf(
			"would leave a residual of %d days, below the legal minimum of %d",
			residual, cfg.MinFractionDays))
	}

	// Known approximation: a single-window check against all of the
	// employee's fractions, not a cross-period solver.
	if !hasLongFraction(e, cfg.MinLongFractionDays) &&
		daysToTake < cfg.MinLongFractionDays &&
		residual > 0 && residual < cfg.MinLongFractionDays {
		v.escalate(VerdictWarning, fmt.Sprintf(
			"risk of losing the mandatory %d-day uninterrupted fraction", cfg.MinLongFractionDays))
	}

	v.ProposedDays = daysToTake
	return v
}

func hasLongFraction(e *Employee, minDays int) bool {
	for _, f := range e.ActiveFractions("") {
		if f.Days >= minDays {
			return true
		}
	}
	return false
}
