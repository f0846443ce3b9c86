// internal/handler/records.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RecordHandler struct {
	store storage.RecordStorage
}

func NewRecordHandler(store storage.RecordStorage) *RecordHandler {
	return &RecordHandler{store: store}
}

// CreateRecord godoc
// @Summary Create an expense, purchase order or commission
// @Tags records
// @Accept json
// @Produce json
// @Param request body RecordRequest true "Record"
// @Success 201 {object} domain.FinancialRecord
// @Failure 400 {object} map[string]string
// @Router /api/v1/records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req RecordRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.store.CreateRecord(c.Request.Context(), merchant, rec)
	if err != nil {
		respondError(c, err, "Failed to create record")
		return
	}

	metrics.RecordMutations.WithLabelValues(string(created.Kind), "create").Inc()
	logger.FromContext(c.Request.Context()).Info("Record created", "merchant_id", merchant, "record_id", created.ID, "kind", created.Kind)
	c.JSON(http.StatusCreated, created)
}

// ListRecords godoc
// @Summary List records matching a filter
// @Tags records
// @Produce json
// @Param kind query string false "expense | purchase_order | commission"
// @Param q query string false "Search in description, id, related party"
// @Param category query string false "Category or all"
// @Param status query string false "Status"
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD"
// @Param month query string false "YYYY-MM, used when start and end are empty"
// @Param sort query string false "date_desc | date_asc | amount_desc | amount_asc | created_desc"
// @Success 200 {array} domain.FinancialRecord
// @Failure 400 {object} map[string]string
// @Router /api/v1/records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
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
	c.JSON(http.StatusOK, report.Sort(report.FilterRecords(records, q.Filter), q.Sort))
}

// GetRecord godoc
// @Summary Get one record
// @Tags records
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} domain.FinancialRecord
// @Failure 404 {object} map[string]string
// @Router /api/v1/records/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	rec, err := h.store.GetRecord(c.Request.Context(), merchant, c.Param("id"))
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateRecord godoc
// @Summary Replace a record's content; status changes go through PATCH /status
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record id"
// @Param request body RecordRequest true "Record"
// @Success 200 {object} domain.FinancialRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/records/{id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req RecordRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetRecord(ctx, merchant, c.Param("id"))
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	if domain.RecordKind(req.Kind) != existing.Kind {
		respondError(c, fmt.Errorf("%w: record is %s", domain.ErrKindMismatch, existing.Kind), "")
		return
	}

	rec, err := req.toRecord()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.ID = existing.ID
	if rec.Category == "" {
		rec.Category = existing.Category
	}

	if err := h.store.UpdateRecord(ctx, merchant, rec); err != nil {
		respondError(c, err, "Failed to update record")
		return
	}
	updated, err := h.store.GetRecord(ctx, merchant, rec.ID)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	metrics.RecordMutations.WithLabelValues(string(updated.Kind), "update").Inc()
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus godoc
// @Summary Move a record to another status
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record id"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} domain.FinancialRecord
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/records/{id}/status [patch]
func (h *RecordHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}

	moved, err := h.store.UpdateStatus(c.Request.Context(), merchant, c.Param("id"), domain.Status(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update status")
		return
	}

	metrics.RecordMutations.WithLabelValues(string(moved.Kind), "status").Inc()
	logger.FromContext(c.Request.Context()).Info("Record status changed", "merchant_id", merchant, "record_id", moved.ID, "status", moved.Status)
	c.JSON(http.StatusOK, moved)
}

// DeleteRecord godoc
// @Summary Delete a record
// @Tags records
// @Param id path string true "Record id"
// @Success 200 {object} map[string]string{"status":"ok"}
// @Failure 404 {object} map[string]string
// @Router /api/v1/records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteRecord(c.Request.Context(), merchant, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete record")
		return
	}
	metrics.RecordMutations.WithLabelValues("", "delete").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// === DTO ===

type OrderItemRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
	Qty  int    `json:"qty" validate:"gte=1"`
}

type RecordRequest struct {
	Kind         string `json:"kind" validate:"required,recordkind"`
	Description  string `json:"description" validate:"max=500"`
	Amount       int64  `json:"amount" validate:"gte=0"`
	Category     string `json:"category" validate:"max=64"`
	Status       string `json:"status" validate:"omitempty,oneof=pending paid scheduled sent received liquidated"`
	Date         string `json:"date" validate:"required,isodate"`
	RelatedParty string `json:"related_party" validate:"max=200"`

	// expense
	Notes string `json:"notes" validate:"max=1000"`

	// purchase_order
	Items         []OrderItemRequest `json:"items" validate:"dive"`
	SendingMethod string             `json:"sending_method" validate:"omitempty,oneof=whatsapp email reminder"`
	ScheduledAt   *time.Time         `json:"scheduled_at"`

	// commission
	SellerID    string `json:"seller_id" validate:"max=64"`
	TotalSold   int64  `json:"total_sold" validate:"gte=0"`
	RatePercent string `json:"rate_percent" validate:"max=16"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid scheduled sent received liquidated"`
}

var expenseCategories = map[string]bool{
	domain.CategoryFixedExpense: true,
	domain.CategoryDailyExpense: true,
	domain.CategoryOther:        true,
}

// toRecord собирает доменную запись с деталями нужного вида.
func (r RecordRequest) toRecord() (domain.FinancialRecord, error) {
	rec := domain.FinancialRecord{
		Kind:         domain.RecordKind(r.Kind),
		Description:  val.SanitizeText(r.Description),
		Amount:       r.Amount,
		Category:     r.Category,
		Status:       domain.Status(r.Status),
		Date:         r.Date,
		RelatedParty: val.SanitizeText(r.RelatedParty),
	}

	switch rec.Kind {
	case domain.KindExpense:
		if rec.Category != "" && !expenseCategories[rec.Category] {
			return rec, fmt.Errorf("category %q is not an expense category", rec.Category)
		}
		rec.Expense = &domain.ExpenseDetails{Notes: val.SanitizeText(r.Notes)}

	case domain.KindPurchaseOrder:
		if len(r.Items) == 0 {
			return rec, errors.New("purchase order needs at least one item")
		}
		po := &domain.PurchaseOrderDetails{
			SendingMethod: domain.SendingMethod(r.SendingMethod),
			ScheduledAt:   r.ScheduledAt,
		}
		if po.SendingMethod == "" {
			po.SendingMethod = domain.SendWhatsApp
		}
		if po.SendingMethod == domain.SendReminder && po.ScheduledAt == nil {
			return rec, errors.New("reminder purchase orders need scheduled_at")
		}
		for _, it := range r.Items {
			po.Items = append(po.Items, domain.OrderItem{Name: val.SanitizeText(it.Name), Qty: it.Qty})
		}
		rec.PurchaseOrder = po
		if rec.Description == "" {
			rec.Description = po.Summary()
		}

	case domain.KindCommission:
		if r.SellerID == "" {
			return rec, errors.New("commission needs seller_id")
		}
		rate := report.DefaultCommissionRate
		if r.RatePercent != "" {
			d, err := decimal.NewFromString(r.RatePercent)
			if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
				return rec, fmt.Errorf("rate_percent %q must be a number between 0 and 100", r.RatePercent)
			}
			rate = d
		}
		rec.Commission = &domain.CommissionDetails{SellerID: r.SellerID, TotalSold: r.TotalSold, RatePercent: rate}
		if rec.Amount == 0 {
			rec.Amount = report.Earned(r.TotalSold, rate)
		}
	}

	if rec.Description == "" {
		return rec, errors.New("description must not be blank")
	}
	if rec.Status != "" && !domain.ValidStatus(rec.Kind, rec.Status) {
		return rec, fmt.Errorf("status %q is not valid for %s", rec.Status, rec.Kind)
	}
	return rec, nil
}
