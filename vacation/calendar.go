package vacation

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

type HolidayType string

const (
	HolidayFeriado          HolidayType = "feriado"
	HolidayPontoFacultativo HolidayType = "ponto_facultativo"
	HolidayRecesso          HolidayType = "recesso"
)

// Holiday is a calendar entry, optionally scoped to a single organizational
// unit. An empty Unit applies to every unit.
type Holiday struct {
	ID   string
	Date Date
	Type HolidayType
	Unit string
}

// AppliesTo reports whether the holiday is in force for the given unit.
func (h Holiday) AppliesTo(unit string) bool {
	return h.Unit == "" || matchName(h.Unit, unit)
}

// HolidayCalendar answers blackout lookups for the validator. Recesso days
// never block a vacation start; only feriados and pontos facultativos do.
type HolidayCalendar []Holiday

// BlocksStart returns the holiday that makes the given date a forbidden
// vacation eve for the unit, or nil. A date is a forbidden eve when the
// next day or the day after is a feriado or ponto facultativo.
func (c HolidayCalendar) BlocksStart(start Date, unit string) *Holiday {
	eve := DateRange{Start: start.AddDays(1), End: start.AddDays(2)}
	for i := range c {
		h := c[i]
		if h.Type == HolidayRecesso {
			continue
		}
		if eve.Contains(h.Date) && h.AppliesTo(unit) {
			return &c[i]
		}
	}
	return nil
}

// =============================================================================
// COLLECTIVE RULES
// =============================================================================

// CollectiveRule is an organization-wide vacation window. Scope lists are
// ANDed: an employee matches when every non-empty list matches them. The
// first matching, non-expired rule is authoritative.
type CollectiveRule struct {
	ID          string
	Start       Date
	End         Date
	Units       []string
	Areas       []string
	Departments []string
	EmployeeIDs []string
	Expired     bool
}

// Range returns the rule's inclusive window.
func (r CollectiveRule) Range() DateRange {
	return DateRange{Start: r.Start, End: r.End}
}

// Matches reports whether the rule applies to the employee.
func (r CollectiveRule) Matches(e *Employee) bool {
	if r.Expired {
		return false
	}
	if len(r.EmployeeIDs) > 0 && !containsExact(r.EmployeeIDs, e.ID) {
		return false
	}
	if len(r.Units) > 0 && !containsName(r.Units, e.Unit) {
		return false
	}
	if len(r.Areas) > 0 && !containsName(r.Areas, e.Area) {
		return false
	}
	if len(r.Departments) > 0 && !containsName(r.Departments, e.Department) {
		return false
	}
	return true
}

// RuleFor returns the first non-expired rule matching the employee, or nil.
func RuleFor(rules []CollectiveRule, e *Employee) *CollectiveRule {
	for i := range rules {
		if rules[i].Matches(e) {
			return &rules[i]
		}
	}
	return nil
}

// =============================================================================
// NAME MATCHING - Accent-insensitive comparison for org names
// =============================================================================

// matchName compares organizational names case- and accent-insensitively,
// so "Divisão de Gestão" matches "divisao de gestao".
func matchName(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}

// normalizeName lowercases, trims and strips diacritics (NFD decompose,
// drop combining marks).
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func containsName(list []string, name string) bool {
	for _, item := range list {
		if matchName(item, name) {
			return true
		}
	}
	return false
}

func containsExact(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
