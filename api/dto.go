/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

DATES:
  All dates travel as "YYYY-MM-DD" strings. Parsing happens in handlers;
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - vacation/types.go: The domain model these map from
*/
package api

import (
	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/vacation"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	HireDate       string             `json:"hire_date"`
	Unit           string             `json:"unit,omitempty"`
	Area           string             `json:"area,omitempty"`
	Department     string             `json:"department,omitempty"`
	HierarchyLevel int                `json:"hierarchy_level,omitempty"`
	ManagerID      string             `json:"manager_id,omitempty"`
	Active         bool               `json:"active"`
	Periods        []AccrualPeriodDTO `json:"periods,omitempty"`
}

// CreateEmployeeRequest is the request to create or replace an employee.
type CreateEmployeeRequest struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	HireDate       string                `json:"hire_date"`
	Unit           string                `json:"unit"`
	Area           string                `json:"area"`
	Department     string                `json:"department"`
	HierarchyLevel int                   `json:"hierarchy_level"`
	ManagerID      string                `json:"manager_id"`
	Active         *bool                 `json:"active,omitempty"`
	Periods        []CreatePeriodRequest `json:"periods,omitempty"`
}

// CreatePeriodRequest describes one accrual period on employee creation.
// An omitted deadline defaults to twelve months after the period end.
type CreatePeriodRequest struct {
	ID         string `json:"id,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Deadline   string `json:"deadline,omitempty"`
	TotalDays  int    `json:"total_days"`
	Status     string `json:"status,omitempty"`
	AbonoBasis string `json:"abono_basis,omitempty"`
}

// AccrualPeriodDTO represents an acquisition window in API responses.
type AccrualPeriodDTO struct {
	ID         string        `json:"id"`
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Deadline   string        `json:"deadline"`
	TotalDays  int           `json:"total_days"`
	Status     string        `json:"status"`
	AbonoBasis string        `json:"abono_basis"`
	Fractions  []FractionDTO `json:"fractions,omitempty"`
}

// FractionDTO represents a scheduled vacation fraction.
type FractionDTO struct {
	ID                string `json:"id"`
	PeriodID          string `json:"period_id"`
	Sequence          int    `json:"sequence"`
	Start             string `json:"start"`
	End               string `json:"end"`
	Days              int    `json:"days"`
	AbonoDays         int    `json:"abono_days"`
	ThirteenthAdvance bool   `json:"thirteenth_advance"`
	Status            string `json:"status"`
}

// =============================================================================
// BALANCE AND ABONO TYPES
// =============================================================================

// PeriodBalanceDTO is one period's balance derivation.
type PeriodBalanceDTO struct {
	PeriodID  string `json:"period_id"`
	Deadline  string `json:"deadline"`
	TotalDays int    `json:"total_days"`
	UsedDays  int    `json:"used_days"`
	AbonoDays int    `json:"abono_days"`
	Remaining int    `json:"remaining"`
}

// BalanceResponse aggregates an employee's per-period balances.
type BalanceResponse struct {
	EmployeeID     string             `json:"employee_id"`
	TotalRemaining int                `json:"total_remaining"`
	Periods        []PeriodBalanceDTO `json:"periods"`
}

// AbonoResponse reports the cash-out allowance for one period.
type AbonoResponse struct {
	PeriodID  string `json:"period_id"`
	Basis     string `json:"basis"`
	Allowance int    `json:"allowance"`
	Remaining int    `json:"remaining"`
	Disabled  bool   `json:"disabled"`
}

// =============================================================================
// FRACTION SCHEDULING TYPES
// =============================================================================

// ScheduleFractionRequest proposes a new or edited fraction.
//
// Privileged and ConfirmOverride mirror the override conversation: a soft
// rejection comes back with "overridable": true, and the client re-submits
// with confirm_override set. There is no authentication layer; callers are
// trusted to report their own role.
type ScheduleFractionRequest struct {
	PeriodID          string `json:"period_id"`
	Start             string `json:"start"`
	Days              int    `json:"days"`
	AbonoDays         int    `json:"abono_days"`
	ThirteenthAdvance bool   `json:"thirteenth_advance"`
	Privileged        bool   `json:"privileged"`
	ConfirmOverride   bool   `json:"confirm_override"`
}

// RejectionDTO is the body of a 422 response.
type RejectionDTO struct {
	Code        string `json:"code"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Overridable bool   `json:"overridable"`
}

// =============================================================================
// COLLECTIVE SIMULATION TYPES
// =============================================================================

// SimulateCollectiveRequest proposes a group vacation window plus a filter.
type SimulateCollectiveRequest struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Units       []string `json:"units,omitempty"`
	Areas       []string `json:"areas,omitempty"`
	Departments []string `json:"departments,omitempty"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

// CandidateVerdictDTO is one employee's simulation verdict.
type CandidateVerdictDTO struct {
	EmployeeID   string   `json:"employee_id"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	Selected     bool     `json:"selected"`
	TotalBalance int      `json:"total_balance"`
	ProposedDays int      `json:"proposed_days"`
	Reasons      []string `json:"reasons"`
}

// SimulateCollectiveResponse wraps the verdicts with the window's size.
type SimulateCollectiveResponse struct {
	WindowDays int                   `json:"window_days"`
	Candidates []CandidateVerdictDTO `json:"candidates"`
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// HolidayDTO represents a calendar entry.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Type string `json:"type"`
	Unit string `json:"unit,omitempty"`
}

// CreateHolidayRequest creates a calendar entry.
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Unit string `json:"unit"`
}

// CollectiveRuleDTO represents a group vacation window rule.
type CollectiveRuleDTO struct {
	ID          string   `json:"id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Units       []string `json:"units,omitempty"`
	Areas       []string `json:"areas,omitempty"`
	Departments []string `json:"departments,omitempty"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	Expired     bool     `json:"expired"`
}

// ConfigDTO exposes the policy constants a scheduling frontend needs,
// notably the menu of fraction durations offered to the user.
type ConfigDTO struct {
	AllowedFractionDays []int  `json:"allowed_fraction_days"`
	DefaultAbonoBasis   string `json:"default_abono_basis"`
	MinLeadDays         int    `json:"min_lead_days"`
	MinAbonoLeadDays    int    `json:"min_abono_lead_days"`
	MaxFractions        int    `json:"max_fractions"`
	MinFractionDays     int    `json:"min_fraction_days"`
	MinLongFractionDays int    `json:"min_long_fraction_days"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toEmployeeDTO(e *vacation.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             e.ID,
		Name:           e.Name,
		HireDate:       e.HireDate.String(),
		Unit:           e.Unit,
		Area:           e.Area,
		Department:     e.Department,
		HierarchyLevel: e.HierarchyLevel,
		ManagerID:      e.ManagerID,
		Active:         e.Active,
	}
	for i := range e.Periods {
		dto.Periods = append(dto.Periods, toPeriodDTO(&e.Periods[i]))
	}
	return dto
}

func toPeriodDTO(p *vacation.AccrualPeriod) AccrualPeriodDTO {
	dto := AccrualPeriodDTO{
		ID:         p.ID,
		Start:      p.Start.String(),
		End:        p.End.String(),
		Deadline:   p.Deadline.String(),
		TotalDays:  p.TotalDays,
		Status:     string(p.Status),
		AbonoBasis: string(p.AbonoBasis),
	}
	for _, f := range p.Fractions {
		dto.Fractions = append(dto.Fractions, toFractionDTO(f))
	}
	return dto
}

func toFractionDTO(f vacation.VacationFraction) FractionDTO {
	return FractionDTO{
		ID:                f.ID,
		PeriodID:          f.PeriodID,
		Sequence:          f.Sequence,
		Start:             f.Start.String(),
		End:               f.End().String(),
		Days:              f.Days,
		AbonoDays:         f.AbonoDays,
		ThirteenthAdvance: f.ThirteenthAdvance,
		Status:            string(f.Status),
	}
}

func toVerdictDTO(v vacation.CandidateVerdict) CandidateVerdictDTO {
	reasons := v.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return CandidateVerdictDTO{
		EmployeeID:   v.EmployeeID,
		Name:         v.Name,
		Status:       string(v.Status),
		Selected:     v.Selected,
		TotalBalance: v.TotalBalance,
		ProposedDays: v.ProposedDays,
		Reasons:      reasons,
	}
}

func toHolidayDTO(h vacation.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:   h.ID,
		Date: h.Date.String(),
		Type: string(h.Type),
		Unit: h.Unit,
	}
}

func toCollectiveRuleDTO(r vacation.CollectiveRule) CollectiveRuleDTO {
	return CollectiveRuleDTO{
		ID:          r.ID,
		Start:       r.Start.String(),
		End:         r.End.String(),
		Units:       r.Units,
		Areas:       r.Areas,
		Departments: r.Departments,
		EmployeeIDs: r.EmployeeIDs,
		Expired:     r.Expired,
	}
}
