/*
Package sqlite is the persistence collaborator for the vacation engine.

PURPOSE:
  The validation engine is pure: it consumes a snapshot and returns either an
  accepted fraction payload or a structured rejection. This package owns
  everything around that - reading consistent snapshots, committing accepted
  fractions, and serializing commits per accrual period.

KEY TABLES:
  employees:          identity, org attributes, hire date
  accrual_periods:    acquisition windows with deadline and entitlement
  vacation_fractions: scheduled fraction rows (status column, never deleted)
  leaves:             read-only absence records
  holidays:           calendar entries, optionally unit-scoped
  collective_rules:   group vacation windows with JSON scope lists

COMMIT SERIALIZATION:
  The validator's overlap/capacity/count/residual checks are only sound
  against a frozen view of a period's fractions. LockPeriod hands out a
  per-period mutex; callers hold it across re-read + validate + write so two
  concurrently validated fractions cannot jointly overcommit a period.

WAL MODE:
  SQLite is opened with WAL and foreign keys on, as readers should not block
  while an administrator confirms an override.

USAGE:
  store, err := sqlite.New("./data/ferias.db")
  ...
  unlock := store.LockPeriod(periodID)
  defer unlock()
  // re-read employee, validate, CommitFraction

SEE ALSO:
  - vacation/validator.go: the pipeline whose checks this serializes
  - api/handlers.go: the only caller of the lock + commit sequence
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/thiagohen50rique-hash/FeriasPro-Antigravity-sub001/vacation"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store implements snapshot reads and fraction commits over SQLite.
type Store struct {
	db *sql.DB

	mu          sync.Mutex
	periodLocks map[string]*sync.Mutex
}

// New opens (or creates) the database at the given path. Use ":memory:" for
// an in-memory database in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, periodLocks: make(map[string]*sync.Mutex)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		area TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		hierarchy_level INTEGER NOT NULL DEFAULT 0,
		manager_id TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS accrual_periods (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		deadline TEXT NOT NULL,
		total_days INTEGER NOT NULL,
		status TEXT NOT NULL,
		abono_basis TEXT NOT NULL DEFAULT 'system'
	);

	CREATE INDEX IF NOT EXISTS idx_periods_employee
		ON accrual_periods(employee_id);

	CREATE TABLE IF NOT EXISTS vacation_fractions (
		id TEXT PRIMARY KEY,
		period_id TEXT NOT NULL REFERENCES accrual_periods(id),
		sequence INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		quantity_days INTEGER NOT NULL,
		abono_days INTEGER NOT NULL DEFAULT 0,
		thirteenth_advance INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fractions_period
		ON vacation_fractions(period_id);

	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leaves_employee
		ON leaves(employee_id);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT ''
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, type, unit);

	CREATE TABLE IF NOT EXISTS collective_rules (
		id TEXT PRIMARY KEY,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		units_json TEXT NOT NULL DEFAULT '[]',
		areas_json TEXT NOT NULL DEFAULT '[]',
		departments_json TEXT NOT NULL DEFAULT '[]',
		employee_ids_json TEXT NOT NULL DEFAULT '[]',
		expired INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PER-PERIOD COMMIT SERIALIZATION
// =============================================================================

// LockPeriod acquires the mutual-exclusion token for one accrual period and
// returns the release function. At most one commit is in flight per period.
func (s *Store) LockPeriod(periodID string) func() {
	s.mu.Lock()
	lock, ok := s.periodLocks[periodID]
	if !ok {
		lock = &sync.Mutex{}
		s.periodLocks[periodID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts the employee together with its periods, fractions and
// leaves. The employee aggregate is replaced wholesale; fraction rows keep
// their IDs.
func (s *Store) SaveEmployee(ctx context.Context, e vacation.Employee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (id, name, hire_date, unit, area, department, hierarchy_level, manager_id, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, hire_date = excluded.hire_date,
			unit = excluded.unit, area = excluded.area, department = excluded.department,
			hierarchy_level = excluded.hierarchy_level, manager_id = excluded.manager_id,
			active = excluded.active`,
		e.ID, e.Name, e.HireDate.String(), e.Unit, e.Area, e.Department,
		e.HierarchyLevel, e.ManagerID, boolToInt(e.Active),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee %s: %w", e.ID, err)
	}

	// Replace the owned collections.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vacation_fractions WHERE period_id IN (SELECT id FROM accrual_periods WHERE employee_id = ?)`, e.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accrual_periods WHERE employee_id = ?`, e.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM leaves WHERE employee_id = ?`, e.ID); err != nil {
		return err
	}

	for _, p := range e.Periods {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accrual_periods (id, employee_id, start_date, end_date, deadline, total_days, status, abono_basis)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, e.ID, p.Start.String(), p.End.String(), p.Deadline.String(),
			p.TotalDays, string(p.Status), string(p.AbonoBasis),
		)
		if err != nil {
			return fmt.Errorf("failed to save period %s: %w", p.ID, err)
		}
		for _, f := range p.Fractions {
			if f.ID == "" {
				f.ID = uuid.NewString()
			}
			if err := insertFraction(ctx, tx, p.ID, f); err != nil {
				return err
			}
		}
	}

	for _, l := range e.Leaves {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO leaves (id, employee_id, type, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			l.ID, e.ID, string(l.Type), l.Start.String(), l.End.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save leave %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

// GetEmployee reads one employee aggregate, or nil when absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*vacation.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hire_date, unit, area, department, hierarchy_level, manager_id, active
		FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.loadPeriods(ctx, e); err != nil {
		return nil, err
	}
	if err := s.loadLeaves(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEmployees reads every employee aggregate, ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]vacation.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hire_date, unit, area, department, hierarchy_level, manager_id, active
		FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []vacation.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		if err := s.loadPeriods(ctx, &employees[i]); err != nil {
			return nil, err
		}
		if err := s.loadLeaves(ctx, &employees[i]); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*vacation.Employee, error) {
	var e vacation.Employee
	var hireDate string
	var active int
	err := row.Scan(&e.ID, &e.Name, &hireDate, &e.Unit, &e.Area, &e.Department,
		&e.HierarchyLevel, &e.ManagerID, &active)
	if err != nil {
		return nil, err
	}
	e.HireDate, err = vacation.ParseDate(hireDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt hire_date for employee %s: %w", e.ID, err)
	}
	e.Active = active != 0
	return &e, nil
}

func (s *Store) loadPeriods(ctx context.Context, e *vacation.Employee) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_date, end_date, deadline, total_days, status, abono_basis
		FROM accrual_periods WHERE employee_id = ? ORDER BY start_date`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	e.Periods = nil
	for rows.Next() {
		var p vacation.AccrualPeriod
		var start, end, deadline, status, basis string
		if err := rows.Scan(&p.ID, &p.EmployeeID, &start, &end, &deadline, &p.TotalDays, &status, &basis); err != nil {
			return err
		}
		if p.Start, err = vacation.ParseDate(start); err != nil {
			return err
		}
		if p.End, err = vacation.ParseDate(end); err != nil {
			return err
		}
		if p.Deadline, err = vacation.ParseDate(deadline); err != nil {
			return err
		}
		p.Status = vacation.PeriodStatus(status)
		p.AbonoBasis = vacation.AbonoBasis(basis)
		e.Periods = append(e.Periods, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range e.Periods {
		if err := s.loadFractions(ctx, &e.Periods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadFractions(ctx context.Context, p *vacation.AccrualPeriod) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, period_id, sequence, start_date, quantity_days, abono_days, thirteenth_advance, status
		FROM vacation_fractions WHERE period_id = ? ORDER BY sequence, start_date`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Fractions = nil
	for rows.Next() {
		var f vacation.VacationFraction
		var start, status string
		var thirteenth int
		if err := rows.Scan(&f.ID, &f.PeriodID, &f.Sequence, &start, &f.Days, &f.AbonoDays, &thirteenth, &status); err != nil {
			return err
		}
		if f.Start, err = vacation.ParseDate(start); err != nil {
			return err
		}
		f.ThirteenthAdvance = thirteenth != 0
		f.Status = vacation.FractionStatus(status)
		p.Fractions = append(p.Fractions, f)
	}
	return rows.Err()
}

func (s *Store) loadLeaves(ctx context.Context, e *vacation.Employee) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, start_date, end_date
		FROM leaves WHERE employee_id = ? ORDER BY start_date`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	e.Leaves = nil
	for rows.Next() {
		var l vacation.Leave
		var typ, start, end string
		if err := rows.Scan(&l.ID, &typ, &start, &end); err != nil {
			return err
		}
		if l.Start, err = vacation.ParseDate(start); err != nil {
			return err
		}
		if l.End, err = vacation.ParseDate(end); err != nil {
			return err
		}
		l.Type = vacation.LeaveType(typ)
		e.Leaves = append(e.Leaves, l)
	}
	return rows.Err()
}

// =============================================================================
// FRACTION COMMITS
// =============================================================================

// CommitFraction persists an accepted fraction. Callers must hold the
// period's lock across re-read, validation and this call.
func (s *Store) CommitFraction(ctx context.Context, accepted vacation.AcceptedFraction) (*vacation.VacationFraction, error) {
	f := vacation.VacationFraction{
		ID:                uuid.NewString(),
		PeriodID:          accepted.PeriodID,
		Sequence:          accepted.Sequence,
		Start:             accepted.Start,
		Days:              accepted.Days,
		AbonoDays:         accepted.AbonoDays,
		ThirteenthAdvance: accepted.ThirteenthAdvance,
		Status:            accepted.Status,
	}
	if err := insertFraction(ctx, s.db, accepted.PeriodID, f); err != nil {
		return nil, err
	}
	return &f, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertFraction(ctx context.Context, db execer, periodID string, f vacation.VacationFraction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO vacation_fractions (id, period_id, sequence, start_date, quantity_days, abono_days, thirteenth_advance, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, periodID, f.Sequence, f.Start.String(), f.Days, f.AbonoDays,
		boolToInt(f.ThirteenthAdvance), string(f.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fraction: %w", err)
	}
	return nil
}

// UpdateFraction overwrites an existing fraction row with the revalidated
// payload. Callers must hold the period's lock.
func (s *Store) UpdateFraction(ctx context.Context, fractionID string, accepted vacation.AcceptedFraction) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vacation_fractions
		SET sequence = ?, start_date = ?, quantity_days = ?, abono_days = ?, thirteenth_advance = ?, status = ?
		WHERE id = ?`,
		accepted.Sequence, accepted.Start.String(), accepted.Days, accepted.AbonoDays,
		boolToInt(accepted.ThirteenthAdvance), string(accepted.Status), fractionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fraction %s: %w", fractionID, err)
	}
	return requireRow(res, fractionID)
}

// CancelFraction flips a fraction to canceled, releasing its balance.
// Rows are never deleted.
func (s *Store) CancelFraction(ctx context.Context, fractionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vacation_fractions SET status = ? WHERE id = ?`,
		string(vacation.FractionCanceled), fractionID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel fraction %s: %w", fractionID, err)
	}
	return requireRow(res, fractionID)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("fraction %s: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h vacation.Holiday) (vacation.Holiday, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, type, unit) VALUES (?, ?, ?, ?)
		ON CONFLICT(date, type, unit) DO NOTHING`,
		h.ID, h.Date.String(), string(h.Type), h.Unit,
	)
	if err != nil {
		return vacation.Holiday{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}

func (s *Store) ListHolidays(ctx context.Context) (vacation.HolidayCalendar, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, type, unit FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendar vacation.HolidayCalendar
	for rows.Next() {
		var h vacation.Holiday
		var date, typ string
		if err := rows.Scan(&h.ID, &date, &typ, &h.Unit); err != nil {
			return nil, err
		}
		if h.Date, err = vacation.ParseDate(date); err != nil {
			return nil, err
		}
		h.Type = vacation.HolidayType(typ)
		calendar = append(calendar, h)
	}
	return calendar, rows.Err()
}

// =============================================================================
// COLLECTIVE RULES
// =============================================================================

func (s *Store) SaveCollectiveRule(ctx context.Context, r vacation.CollectiveRule) (vacation.CollectiveRule, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	units, _ := json.Marshal(r.Units)
	areas, _ := json.Marshal(r.Areas)
	departments, _ := json.Marshal(r.Departments)
	employeeIDs, _ := json.Marshal(r.EmployeeIDs)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collective_rules (id, start_date, end_date, units_json, areas_json, departments_json, employee_ids_json, expired)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date, end_date = excluded.end_date,
			units_json = excluded.units_json, areas_json = excluded.areas_json,
			departments_json = excluded.departments_json,
			employee_ids_json = excluded.employee_ids_json, expired = excluded.expired`,
		r.ID, r.Start.String(), r.End.String(),
		string(units), string(areas), string(departments), string(employeeIDs),
		boolToInt(r.Expired),
	)
	if err != nil {
		return vacation.CollectiveRule{}, fmt.Errorf("failed to save collective rule: %w", err)
	}
	return r, nil
}

func (s *Store) ListCollectiveRules(ctx context.Context) ([]vacation.CollectiveRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, units_json, areas_json, departments_json, employee_ids_json, expired
		FROM collective_rules ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []vacation.CollectiveRule
	for rows.Next() {
		var r vacation.CollectiveRule
		var start, end, units, areas, departments, employeeIDs string
		var expired int
		if err := rows.Scan(&r.ID, &start, &end, &units, &areas, &departments, &employeeIDs, &expired); err != nil {
			return nil, err
		}
		if r.Start, err = vacation.ParseDate(start); err != nil {
			return nil, err
		}
		if r.End, err = vacation.ParseDate(end); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(units), &r.Units); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(areas), &r.Areas); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(departments), &r.Departments); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(employeeIDs), &r.EmployeeIDs); err != nil {
			return nil, err
		}
		r.Expired = expired != 0
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the consistent read the core consumes on each call.
type Snapshot struct {
	Employees []vacation.Employee
	Holidays  vacation.HolidayCalendar
	Rules     []vacation.CollectiveRule
}

// ReadSnapshot loads everything the engine needs in one pass.
func (s *Store) ReadSnapshot(ctx context.Context) (*Snapshot, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.ListCollectiveRules(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Employees: employees, Holidays: holidays, Rules: rules}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
