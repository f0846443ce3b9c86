// internal/handler/reports.go
package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/money"
	"bayup-finance/internal/render"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	"github.com/gin-gonic/gin"
)

const defaultReportTitle = "Reporte financiero"

type ReportHandler struct {
	store    storage.RecordStorage
	f        *money.Formatter
	renderer render.Renderer
	pageSize int
	now      func() time.Time
}

func NewReportHandler(store storage.RecordStorage, f *money.Formatter, renderer render.Renderer, pageSize int) *ReportHandler {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &ReportHandler{store: store, f: f, renderer: renderer, pageSize: pageSize, now: time.Now}
}

type reportQuery struct {
	Filter report.Filter
	Sort   report.SortKey
}

// ReportQuery is the filter part of /records and /reports query strings.
// start and end are checked together by report.NewDateRange.
type ReportQuery struct {
	Kind     string `form:"kind" validate:"omitempty,recordkind"`
	Start    string `form:"start"`
	End      string `form:"end"`
	Month    string `form:"month" validate:"omitempty,yearmonth"`
	Sort     string `form:"sort" validate:"max=32"`
	Search   string `form:"q" validate:"max=200"`
	Category string `form:"category" validate:"max=64"`
	Status   string `form:"status" validate:"max=32"`
}

// parseReportQuery validates filter parameters before any record is touched.
func parseReportQuery(c *gin.Context) (reportQuery, error) {
	var (
		q   reportQuery
		req ReportQuery
	)
	if err := c.ShouldBindQuery(&req); err != nil {
		return q, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := validateStruct(req); err != nil {
		return q, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rng, err := report.NewDateRange(req.Start, req.End)
	if err != nil {
		return q, err
	}
	if rng == nil && req.Month != "" {
		if rng, err = report.MonthRange(req.Month); err != nil {
			return q, err
		}
	}

	q.Sort = report.SortKey(req.Sort)
	if !q.Sort.Valid() {
		return q, fmt.Errorf("%w: unknown sort %q", errBadRequest, q.Sort)
	}

	q.Filter = report.Filter{
		SearchTerm: req.Search,
		Category:   req.Category,
		DateRange:  rng,
		Kind:       domain.RecordKind(req.Kind),
		Status:     domain.Status(req.Status),
	}
	return q, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

// Summary godoc
// @Summary Filtered totals, per-category totals and one page of records
// @Tags reports
// @Produce json
// @Param kind query string false "expense | purchase_order | commission"
// @Param q query string false "Search term"
// @Param category query string false "Category or all"
// @Param status query string false "Status"
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD"
// @Param month query string false "YYYY-MM"
// @Param sort query string false "Sort key"
// @Param page query int false "1-based page"
// @Param per_page query int false "Page size"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	q, err := parseReportQuery(c)
	if err != nil {
		respondError(c, err, "Invalid filter")
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}

	records, err := h.store.ListRecords(c.Request.Context(), merchant, q.Filter.Kind)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	s := report.Summarize(records, q.Filter, report.SummaryOptions{
		Sort:    q.Sort,
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", h.pageSize),
	})
	metrics.ReportsGenerated.WithLabelValues("json").Inc()
	c.JSON(http.StatusOK, SummaryResponse{Summary: s, Formatted: formatTotals(s.Totals, h.f)})
}

// PDF godoc
// @Summary Filtered report as a PDF document
// @Tags reports
// @Produce application/pdf
// @Param title query string false "Document title"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /api/v1/reports/pdf [get]
func (h *ReportHandler) PDF(c *gin.Context) {
	q, err := parseReportQuery(c)
	if err != nil {
		respondError(c, err, "Invalid filter")
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	records, err := h.store.ListRecords(ctx, merchant, q.Filter.Kind)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	title := val.SanitizeText(c.Query("title"))
	if title == "" {
		title = defaultReportTitle
	}
	doc := report.NewDocument(title, q.Filter.DateRange, report.Sort(report.FilterRecords(records, q.Filter), q.Sort), h.f)

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, doc); err != nil {
		respondError(c, err, "Failed to render report")
		return
	}

	metrics.ReportsGenerated.WithLabelValues("pdf").Inc()
	logger.FromContext(ctx).Info("Report rendered", "merchant_id", merchant, "rows", len(doc.Rows), "bytes", buf.Len())
	h.sendPDF(c, "reporte_"+h.now().Format(domain.ISODateLayout)+".pdf", buf.Bytes())
}

// PurchaseOrderPDF godoc
// @Summary Purchase order sheet as a PDF document
// @Tags reports
// @Produce application/pdf
// @Param id path string true "Purchase order record id"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/purchase-orders/{id}/pdf [get]
func (h *ReportHandler) PurchaseOrderPDF(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	rec, err := h.store.GetRecord(c.Request.Context(), merchant, c.Param("id"))
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.PurchaseOrder(&buf, rec, h.f); err != nil {
		respondError(c, err, "Failed to render purchase order")
		return
	}

	metrics.ReportsGenerated.WithLabelValues("purchase_order_pdf").Inc()
	name := "orden_" + strings.ReplaceAll(rec.ID, "/", "_") + ".pdf"
	h.sendPDF(c, name, buf.Bytes())
}

func (h *ReportHandler) sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, h.renderer.ContentType(), data)
}

// === DTO ===

type FormattedTotals struct {
	Total        string            `json:"total"`
	PendingTotal string            `json:"pending_total"`
	ByCategory   map[string]string `json:"by_category"`
}

type SummaryResponse struct {
	report.Summary
	Formatted FormattedTotals `json:"formatted"`
}

func formatTotals(t report.AggregateTotals, f *money.Formatter) FormattedTotals {
	by := make(map[string]string, len(t.ByCategory))
	for cat, amount := range t.ByCategory {
		by[cat] = f.Currency(amount)
	}
	return FormattedTotals{
		Total:        f.Currency(t.Total),
		PendingTotal: f.Currency(t.PendingTotal),
		ByCategory:   by,
	}
}
