// internal/report/filter.go
package report

import (
	"fmt"
	"strings"
	"time"

	"bayup-finance/internal/domain"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// FilterRangeError is raised when date range bounds cannot be used.
type FilterRangeError struct {
	Start, End string
	Reason     string
}

func (e *FilterRangeError) Error() string {
	return fmt.Sprintf("invalid date range [%q, %q]: %s", e.Start, e.End, e.Reason)
}

// DateRange is inclusive on both ends, ISO dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange validates bounds at input time. Both empty means no range.
func NewDateRange(start, end string) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, &FilterRangeError{Start: start, End: end, Reason: "both bounds are required"}
	}
	from, err := ParseDate(start)
	if err != nil {
		return nil, &FilterRangeError{Start: start, End: end, Reason: "start is not an ISO date"}
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, &FilterRangeError{Start: start, End: end, Reason: "end is not an ISO date"}
	}
	if from.After(to) {
		return nil, &FilterRangeError{Start: start, End: end, Reason: "start is after end"}
	}
	return &DateRange{Start: start, End: end}, nil
}

// MonthRange covers a whole YYYY-MM month.
func MonthRange(month string) (*DateRange, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, &FilterRangeError{Start: month, End: month, Reason: "month must be YYYY-MM"}
	}
	last := t.AddDate(0, 1, -1)
	return &DateRange{Start: t.Format(domain.ISODateLayout), End: last.Format(domain.ISODateLayout)}, nil
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, truncated to its day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(domain.ISODateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Contains is false whenever any date involved fails to parse.
func (r DateRange) Contains(date string) bool {
	from, err := ParseDate(r.Start)
	if err != nil {
		return false
	}
	to, err := ParseDate(r.End)
	if err != nil {
		return false
	}
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

type Filter struct {
	SearchTerm string            `json:"search_term"`
	Category   string            `json:"category"`
	DateRange  *DateRange        `json:"date_range,omitempty"`
	Kind       domain.RecordKind `json:"kind,omitempty"`
	Status     domain.Status     `json:"status,omitempty"`
}

func (f Filter) match(r domain.FinancialRecord, term string) bool {
	if term != "" &&
		!strings.Contains(strings.ToLower(r.Description), term) &&
		!strings.Contains(strings.ToLower(r.ID), term) &&
		!strings.Contains(strings.ToLower(r.RelatedParty), term) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && r.Category != f.Category {
		return false
	}
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.DateRange != nil && !f.DateRange.Contains(r.Date) {
		return false
	}
	return true
}

// FilterRecords keeps records that pass every non-empty predicate, in input order.
// The input slice is not modified.
func FilterRecords(records []domain.FinancialRecord, f Filter) []domain.FinancialRecord {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	out := make([]domain.FinancialRecord, 0, len(records))
	for _, r := range records {
		if f.match(r, term) {
			out = append(out, r)
		}
	}
	return out
}
