// internal/report/aggregate.go
package report

import (
	"cmp"
	"slices"

	"bayup-finance/internal/domain"
)

type AggregateTotals struct {
	Total        domain.MoneyAmount            `json:"total"`
	ByCategory   map[string]domain.MoneyAmount `json:"by_category"`
	PendingTotal domain.MoneyAmount            `json:"pending_total"`
	Count        int                           `json:"count"`
}

// Aggregate sums amounts in one pass. A record is pending unless its status is settled.
func Aggregate(records []domain.FinancialRecord) AggregateTotals {
	totals := AggregateTotals{ByCategory: make(map[string]domain.MoneyAmount)}
	for _, r := range records {
		totals.Total += r.Amount
		totals.ByCategory[r.Category] += r.Amount
		if !r.Status.Settled() {
			totals.PendingTotal += r.Amount
		}
		totals.Count++
	}
	return totals
}

type SortKey string

const (
	SortInsertion   SortKey = ""
	SortDateDesc    SortKey = "date_desc"
	SortDateAsc     SortKey = "date_asc"
	SortAmountDesc  SortKey = "amount_desc"
	SortAmountAsc   SortKey = "amount_asc"
	SortCreatedDesc SortKey = "created_desc"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortInsertion, SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortCreatedDesc:
		return true
	}
	return false
}

// Sort returns a stably sorted copy. Unknown keys keep insertion order.
// Records with unparseable dates sort after dated ones.
func Sort(records []domain.FinancialRecord, key SortKey) []domain.FinancialRecord {
	out := slices.Clone(records)
	switch key {
	case SortDateAsc:
		slices.SortStableFunc(out, func(a, b domain.FinancialRecord) int { return compareDates(a.Date, b.Date, false) })
	case SortDateDesc:
		slices.SortStableFunc(out, func(a, b domain.FinancialRecord) int { return compareDates(a.Date, b.Date, true) })
	case SortAmountAsc:
		slices.SortStableFunc(out, func(a, b domain.FinancialRecord) int { return cmp.Compare(a.Amount, b.Amount) })
	case SortAmountDesc:
		slices.SortStableFunc(out, func(a, b domain.FinancialRecord) int { return cmp.Compare(b.Amount, a.Amount) })
	case SortCreatedDesc:
		slices.SortStableFunc(out, func(a, b domain.FinancialRecord) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	return out
}

func compareDates(a, b string, desc bool) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	if desc {
		return tb.Compare(ta)
	}
	return ta.Compare(tb)
}

type Page struct {
	Records    []domain.FinancialRecord `json:"records"`
	Page       int                      `json:"page"`
	PerPage    int                      `json:"per_page"`
	TotalPages int                      `json:"total_pages"`
	TotalItems int                      `json:"total_items"`
}

// Paginate slices out a 1-based page; page is clamped to [1, TotalPages].
func Paginate(records []domain.FinancialRecord, page, perPage int) Page {
	if perPage <= 0 {
		perPage = len(records)
		if perPage == 0 {
			perPage = 1
		}
	}
	totalPages := (len(records) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := min(start+perPage, len(records))
	items := []domain.FinancialRecord{}
	if start < end {
		items = slices.Clone(records[start:end])
	}
	return Page{
		Records:    items,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: len(records),
	}
}

type SummaryOptions struct {
	Sort    SortKey
	Page    int
	PerPage int
}

// Summary: totals cover every filtered record, the page only a slice of them.
type Summary struct {
	Totals AggregateTotals `json:"totals"`
	Page   Page            `json:"page"`
}

func Summarize(records []domain.FinancialRecord, f Filter, opts SummaryOptions) Summary {
	filtered := FilterRecords(records, f)
	return Summary{
		Totals: Aggregate(filtered),
		Page:   Paginate(Sort(filtered, opts.Sort), opts.Page, opts.PerPage),
	}
}
