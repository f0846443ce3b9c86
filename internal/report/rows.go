// internal/report/rows.go
package report

import (
	"bayup-finance/internal/domain"
	"bayup-finance/internal/money"
)

const displayDateLayout = "02/01/2006"

// Row is one line of a rendered report; every field is display text.
type Row struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Total       bool   `json:"total,omitempty"`
}

// Document is everything a renderer needs; it has no way back into the report.
type Document struct {
	Title  string `json:"title"`
	Period string `json:"period"`
	Rows   []Row  `json:"rows"`
}

var statusLabels = map[domain.Status]string{
	domain.StatusPending:    "Pendiente",
	domain.StatusPaid:       "Pagado",
	domain.StatusScheduled:  "Programada",
	domain.StatusSent:       "Enviada",
	domain.StatusReceived:   "Recibida",
	domain.StatusLiquidated: "Liquidada",
}

var categoryLabels = map[string]string{
	domain.CategoryFixedExpense: "Gasto fijo",
	domain.CategoryDailyExpense: "Gasto diario",
	domain.CategoryPurchase:     "Compras",
	domain.CategoryCommission:   "Comisiones",
	domain.CategoryOther:        "Otros",
}

func StatusLabel(s domain.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func CategoryLabel(c string) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return c
}

// FormatDate renders an ISO date as dd/mm/yyyy; unparseable dates pass through.
func FormatDate(iso string) string {
	t, err := ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format(displayDateLayout)
}

// BuildRows keeps record order and appends one total row.
func BuildRows(records []domain.FinancialRecord, f *money.Formatter) []Row {
	rows := make([]Row, 0, len(records)+1)
	var total domain.MoneyAmount
	for _, r := range records {
		rows = append(rows, Row{
			Description: r.Description,
			Category:    CategoryLabel(r.Category),
			Date:        FormatDate(r.Date),
			Amount:      f.Currency(r.Amount),
			Status:      StatusLabel(r.Status),
		})
		total += r.Amount
	}
	rows = append(rows, Row{
		Description: "TOTAL",
		Amount:      f.Currency(total),
		Total:       true,
	})
	return rows
}

// NewDocument builds the renderer input for a filtered record set.
func NewDocument(title string, rng *DateRange, records []domain.FinancialRecord, f *money.Formatter) Document {
	period := "Todo el periodo"
	if rng != nil {
		period = FormatDate(rng.Start) + " - " + FormatDate(rng.End)
	}
	return Document{Title: title, Period: period, Rows: BuildRows(records, f)}
}
