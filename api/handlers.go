/*
handlers.go - HTTP API handlers for the vacation scheduling engine

PURPOSE:
  Exposes the vacation engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List all employees
    POST   /api/employees                          Create/replace employee
    GET    /api/employees/{id}                     Get employee with periods
    GET    /api/employees/{id}/balance             Per-period balance summary
    GET    /api/employees/{id}/periods/{periodID}/abono  Cash-out allowance

  Fractions:
    POST   /api/employees/{id}/fractions           Validate + commit fraction
    PUT    /api/employees/{id}/fractions/{fractionID}  Re-validate edit
    DELETE /api/employees/{id}/fractions/{fractionID}  Cancel (status flip)

  Collective:
    POST   /api/collective/simulate                Dry-run group eligibility
    GET    /api/collective/rules                   List group vacation rules
    POST   /api/collective/rules                   Create group vacation rule

  Calendar:
    GET    /api/holidays                           List calendar entries
    POST   /api/holidays                           Create calendar entry

  Misc:
    GET    /api/config                             Policy constants
    GET    /healthz                                Liveness probe

COMMIT FLOW:
  Every fraction write acquires the period's lock, re-reads the employee
  under that lock, runs the full validation pipeline against the fresh
  snapshot, and only then commits. Two racing proposals for the same period
  therefore cannot jointly overcommit its balance.

ERROR HANDLING:
  - 400: Malformed request body or dates
  - 404: Employee/period/fraction not found
  - 422: Pipeline rejection (RejectionDTO: code, kind, message, overridable)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. The privileged/override
  flags are caller-reported.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - vacation/validator.go: The pipeline this fronts
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/store/sqlite"
	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Config vacation.Config
	Log    *logrus.Logger

	// Now supplies "today" for the pipeline. Overridable in tests.
	Now func() vacation.Date
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, cfg vacation.Config, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Store:  store,
		Config: cfg,
		Log:    log,
		Now:    func() vacation.Date { return vacation.DateOf(time.Now()) },
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees with their periods and fractions.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i := range employees {
		dtos[i] = toEmployeeDTO(&employees[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee aggregate.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates or replaces an employee aggregate.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	hireDate, err := vacation.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	emp := vacation.Employee{
		ID:             req.ID,
		Name:           req.Name,
		HireDate:       hireDate,
		Unit:           req.Unit,
		Area:           req.Area,
		Department:     req.Department,
		HierarchyLevel: req.HierarchyLevel,
		ManagerID:      req.ManagerID,
		Active:         active,
	}

	for _, p := range req.Periods {
		period, err := parsePeriodRequest(req.ID, p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period", err)
			return
		}
		emp.Periods = append(emp.Periods, period)
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": emp.ID,
		"periods":     len(emp.Periods),
	}).Info("employee saved")

	writeJSON(w, http.StatusCreated, toEmployeeDTO(&emp))
}

func parsePeriodRequest(employeeID string, p CreatePeriodRequest) (vacation.AccrualPeriod, error) {
	start, err := vacation.ParseDate(p.Start)
	if err != nil {
		return vacation.AccrualPeriod{}, err
	}
	end, err := vacation.ParseDate(p.End)
	if err != nil {
		return vacation.AccrualPeriod{}, err
	}
	// An omitted deadline defaults to the statutory concession limit: twelve
	// months after the acquisitive period ends.
	deadline := end.AddMonths(12)
	if p.Deadline != "" {
		if deadline, err = vacation.ParseDate(p.Deadline); err != nil {
			return vacation.AccrualPeriod{}, err
		}
	}

	status := vacation.PeriodStatus(p.Status)
	if p.Status == "" {
		status = vacation.PeriodPlanning
	}
	basis := vacation.AbonoBasis(p.AbonoBasis)
	if p.AbonoBasis == "" {
		basis = vacation.AbonoBasisSystem
	}

	return vacation.AccrualPeriod{
		ID:         p.ID,
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
		Deadline:   deadline,
		TotalDays:  p.TotalDays,
		Status:     status,
		AbonoBasis: basis,
	}, nil
}

// =============================================================================
// BALANCE AND ABONO HANDLERS
// =============================================================================

// GetBalance returns per-period balances plus the aggregate remainder.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	resp := BalanceResponse{EmployeeID: emp.ID, Periods: []PeriodBalanceDTO{}}
	for i := range emp.Periods {
		p := &emp.Periods[i]
		summary := vacation.ComputeBalance(p, "")
		resp.Periods = append(resp.Periods, PeriodBalanceDTO{
			PeriodID:  p.ID,
			Deadline:  p.Deadline.String(),
			TotalDays: p.TotalDays,
			UsedDays:  summary.UsedDays,
			AbonoDays: summary.AbonoDays,
			Remaining: summary.Remaining,
		})
		resp.TotalRemaining += summary.Remaining
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAbono returns the cash-out allowance for one accrual period.
func (h *Handler) GetAbono(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	periodID := chi.URLParam(r, "periodID")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	period := findPeriod(emp, periodID)
	if period == nil {
		writeError(w, http.StatusNotFound, "Period not found", nil)
		return
	}

	allowance := vacation.AbonoAllowance(period, h.Config)
	remaining := vacation.ComputeBalance(period, "").Remaining
	basis := period.AbonoBasis
	if basis == vacation.AbonoBasisSystem || basis == "" {
		basis = h.Config.DefaultAbonoBasis
	}

	writeJSON(w, http.StatusOK, AbonoResponse{
		PeriodID:  period.ID,
		Basis:     string(basis),
		Allowance: allowance,
		Remaining: remaining,
		Disabled:  vacation.AbonoDisabled(0, allowance, remaining),
	})
}

// =============================================================================
// FRACTION HANDLERS
// =============================================================================

// ScheduleFraction validates a proposed fraction and commits it.
// POST /api/employees/{id}/fractions
func (h *Handler) ScheduleFraction(w http.ResponseWriter, r *http.Request) {
	h.scheduleFraction(w, r, "")
}

// EditFraction re-runs the full pipeline for an existing fraction.
// PUT /api/employees/{id}/fractions/{fractionID}
func (h *Handler) EditFraction(w http.ResponseWriter, r *http.Request) {
	h.scheduleFraction(w, r, chi.URLParam(r, "fractionID"))
}

func (h *Handler) scheduleFraction(w http.ResponseWriter, r *http.Request, editingID string) {
	employeeID := chi.URLParam(r, "id")

	var req ScheduleFractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := vacation.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	if req.PeriodID == "" {
		writeError(w, http.StatusBadRequest, "period_id is required", nil)
		return
	}

	// Serialize against concurrent commits for the same period, then
	// validate against a snapshot read under the lock.
	unlock := h.Store.LockPeriod(req.PeriodID)
	defer unlock()

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	period := findPeriod(emp, req.PeriodID)
	if period == nil {
		writeError(w, http.StatusNotFound, "Period not found", nil)
		return
	}
	if editingID != "" && period.Fraction(editingID) == nil {
		writeError(w, http.StatusNotFound, "Fraction not found", nil)
		return
	}

	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}
	rules, err := h.Store.ListCollectiveRules(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load collective rules", err)
		return
	}

	proposal := vacation.Proposal{
		Start:             start,
		Days:              req.Days,
		AbonoDays:         req.AbonoDays,
		ThirteenthAdvance: req.ThirteenthAdvance,
	}
	vctx := vacation.Context{
		Today:             h.Now(),
		Config:            h.Config,
		Holidays:          holidays,
		CollectiveRules:   rules,
		Privileged:        req.Privileged,
		OverrideConfirmed: req.ConfirmOverride,
		EditingFractionID: editingID,
	}

	accepted, err := vacation.Validate(emp, period, proposal, vctx)
	if err != nil {
		if rej, ok := vacation.IsRejection(err); ok {
			h.Log.WithFields(logrus.Fields{
				"employee_id": employeeID,
				"period_id":   req.PeriodID,
				"code":        string(rej.Code),
				"kind":        string(rej.Kind),
			}).Info("fraction rejected")
			writeJSON(w, http.StatusUnprocessableEntity, RejectionDTO{
				Code:        string(rej.Code),
				Kind:        string(rej.Kind),
				Message:     rej.Message,
				Overridable: rej.Overridable(),
			})
			return
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	if editingID != "" {
		if err := h.Store.UpdateFraction(ctx, editingID, *accepted); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update fraction", err)
			return
		}
		f := vacation.VacationFraction{
			ID:                editingID,
			PeriodID:          accepted.PeriodID,
			Sequence:          accepted.Sequence,
			Start:             accepted.Start,
			Days:              accepted.Days,
			AbonoDays:         accepted.AbonoDays,
			ThirteenthAdvance: accepted.ThirteenthAdvance,
			Status:            accepted.Status,
		}
		writeJSON(w, http.StatusOK, toFractionDTO(f))
		return
	}

	committed, err := h.Store.CommitFraction(ctx, *accepted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to commit fraction", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"period_id":   req.PeriodID,
		"fraction_id": committed.ID,
		"days":        committed.Days,
	}).Info("fraction scheduled")

	writeJSON(w, http.StatusCreated, toFractionDTO(*committed))
}

// CancelFraction flips a fraction to canceled, releasing its balance.
// DELETE /api/employees/{id}/fractions/{fractionID}
func (h *Handler) CancelFraction(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	fractionID := chi.URLParam(r, "fractionID")

	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var periodID string
	for i := range emp.Periods {
		if emp.Periods[i].Fraction(fractionID) != nil {
			periodID = emp.Periods[i].ID
			break
		}
	}
	if periodID == "" {
		writeError(w, http.StatusNotFound, "Fraction not found", nil)
		return
	}

	unlock := h.Store.LockPeriod(periodID)
	defer unlock()

	if err := h.Store.CancelFraction(ctx, fractionID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cancel fraction", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"fraction_id": fractionID,
	}).Info("fraction canceled")

	w.WriteHeader(http.StatusNoContent)
}

func findPeriod(e *vacation.Employee, periodID string) *vacation.AccrualPeriod {
	for i := range e.Periods {
		if e.Periods[i].ID == periodID {
			return &e.Periods[i]
		}
	}
	return nil
}

// =============================================================================
// COLLECTIVE HANDLERS
// =============================================================================

// SimulateCollective dry-runs group vacation eligibility.
// POST /api/collective/simulate
func (h *Handler) SimulateCollective(w http.ResponseWriter, r *http.Request) {
	var req SimulateCollectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := vacation.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := vacation.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end must not precede start", nil)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	window := vacation.CollectiveWindow{Start: start, End: end}
	filter := vacation.CandidateFilter{
		Units:       req.Units,
		Areas:       req.Areas,
		Departments: req.Departments,
		EmployeeIDs: req.EmployeeIDs,
	}

	verdicts := vacation.SimulateCollective(employees, window, filter, h.Config, h.Now())

	resp := SimulateCollectiveResponse{
		WindowDays: window.TotalDays(),
		Candidates: []CandidateVerdictDTO{},
	}
	for _, v := range verdicts {
		resp.Candidates = append(resp.Candidates, toVerdictDTO(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCollectiveRules returns all group vacation rules.
func (h *Handler) ListCollectiveRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Store.ListCollectiveRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list collective rules", err)
		return
	}
	dtos := make([]CollectiveRuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toCollectiveRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCollectiveRule creates a group vacation rule.
func (h *Handler) CreateCollectiveRule(w http.ResponseWriter, r *http.Request) {
	var req CollectiveRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := vacation.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := vacation.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}

	rule := vacation.CollectiveRule{
		ID:          req.ID,
		Start:       start,
		End:         end,
		Units:       req.Units,
		Areas:       req.Areas,
		Departments: req.Departments,
		EmployeeIDs: req.EmployeeIDs,
		Expired:     req.Expired,
	}
	saved, err := h.Store.SaveCollectiveRule(r.Context(), rule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save collective rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectiveRuleDTO(saved))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all calendar entries.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	calendar, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(calendar))
	for i, holiday := range calendar {
		dtos[i] = toHolidayDTO(holiday)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday creates a calendar entry.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := vacation.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	switch vacation.HolidayType(req.Type) {
	case vacation.HolidayFeriado, vacation.HolidayPontoFacultativo, vacation.HolidayRecesso:
	default:
		writeError(w, http.StatusBadRequest, "Unknown holiday type", nil)
		return
	}

	saved, err := h.Store.SaveHoliday(r.Context(), vacation.Holiday{
		Date: date,
		Type: vacation.HolidayType(req.Type),
		Unit: req.Unit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(saved))
}

// GetConfig exposes the active policy constants.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ConfigDTO{
		AllowedFractionDays: h.Config.AllowedFractionDays,
		DefaultAbonoBasis:   string(h.Config.DefaultAbonoBasis),
		MinLeadDays:         h.Config.MinLeadDays,
		MinAbonoLeadDays:    h.Config.MinAbonoLeadDays,
		MaxFractions:        h.Config.MaxFractions,
		MinFractionDays:     h.Config.MinFractionDays,
		MinLongFractionDays: h.Config.MinLongFractionDays,
	})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
