// internal/handler/commissions.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/money"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// rateScale matches commission_rules.rate_percent NUMERIC(6, 3).
const rateScale = 3

type CommissionHandler struct {
	store storage.Store
	f     *money.Formatter
	now   func() time.Time
}

func NewCommissionHandler(store storage.Store, f *money.Formatter, now func() time.Time) *CommissionHandler {
	if now == nil {
		now = time.Now
	}
	return &CommissionHandler{store: store, f: f, now: now}
}

type RuleView struct {
	domain.CommissionRule
	SalesMonth      domain.MoneyAmount `json:"sales_month"`
	ProjectedEarned domain.MoneyAmount `json:"projected_earned"`
	GoalProgress    string             `json:"goal_progress"`
	Formatted       struct {
		SalesMonth      string `json:"sales_month"`
		ProjectedEarned string `json:"projected_earned"`
		Goal            string `json:"goal"`
	} `json:"formatted"`
}

// ListRules godoc
// @Summary Commission rule for every seller; sellers without one get the default rule
// @Tags commissions
// @Produce json
// @Success 200 {array} RuleView
// @Router /api/v1/commission-rules [get]
func (h *CommissionHandler) ListRules(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sellers, err := h.store.ListSellers(ctx, merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	existing, err := h.store.ListRules(ctx, merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	sold := make(map[string]domain.MoneyAmount, len(sellers))
	for _, s := range sellers {
		sold[s.ID] = s.SalesMonth
	}

	rules := report.EnsureRules(sellers, existing)
	out := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		v := RuleView{
			CommissionRule:  r,
			SalesMonth:      sold[r.SellerID],
			ProjectedEarned: report.Earned(sold[r.SellerID], r.RatePercent),
		}
		progress := decimal.Zero
		if r.Goal > 0 {
			progress = decimal.NewFromInt(v.SalesMonth).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(r.Goal))
		}
		v.GoalProgress = h.f.Percent(progress)
		v.Formatted.SalesMonth = h.f.Currency(v.SalesMonth)
		v.Formatted.ProjectedEarned = h.f.Currency(v.ProjectedEarned)
		v.Formatted.Goal = h.f.Currency(r.Goal)
		out = append(out, v)
	}
	c.JSON(http.StatusOK, out)
}

// UpsertRule godoc
// @Summary Create or change a seller's commission rule
// @Tags commissions
// @Accept json
// @Produce json
// @Param seller_id path string true "Seller id"
// @Param request body RuleRequest true "Rule"
// @Success 200 {object} domain.CommissionRule
// @Failure 400 {object} map[string]string
// @Router /api/v1/commission-rules/{seller_id} [put]
func (h *CommissionHandler) UpsertRule(c *gin.Context) {
	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}

	rate := report.DefaultCommissionRate
	if req.RatePercent != "" {
		d, err := decimal.NewFromString(req.RatePercent)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rate_percent must be a number between 0 and 100"})
			return
		}
		if !d.Equal(d.Truncate(rateScale)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("rate_percent allows at most %d decimal places", rateScale)})
			return
		}
		rate = d
	}
	goal := report.DefaultCommissionGoal
	if req.Goal != nil {
		goal = *req.Goal
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule := domain.CommissionRule{
		SellerID:    c.Param("seller_id"),
		SellerName:  val.SanitizeText(req.SellerName),
		RatePercent: rate,
		Goal:        goal,
		Active:      active,
	}
	if err := h.store.UpsertRule(c.Request.Context(), merchant, rule); err != nil {
		respondError(c, err, "Failed to save rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// ListSellers godoc
// @Summary Sellers and their sales this month
// @Tags commissions
// @Produce json
// @Success 200 {array} domain.Seller
// @Router /api/v1/sellers [get]
func (h *CommissionHandler) ListSellers(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	sellers, err := h.store.ListSellers(c.Request.Context(), merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	c.JSON(http.StatusOK, sellers)
}

// UpsertSeller godoc
// @Summary Create a seller or update their monthly sales
// @Tags commissions
// @Accept json
// @Produce json
// @Param id path string true "Seller id"
// @Param request body SellerRequest true "Seller"
// @Success 200 {object} domain.Seller
// @Failure 400 {object} map[string]string
// @Router /api/v1/sellers/{id} [put]
func (h *CommissionHandler) UpsertSeller(c *gin.Context) {
	var req SellerRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	s := domain.Seller{ID: c.Param("id"), Name: val.SanitizeText(req.Name), SalesMonth: req.SalesMonth}
	if err := h.store.UpsertSeller(c.Request.Context(), merchant, s); err != nil {
		respondError(c, err, "Failed to save seller")
		return
	}
	c.JSON(http.StatusOK, s)
}

// Generate godoc
// @Summary Create pending commission records for every active rule of the current month.
// @Description Sellers only carry current-month sales, so other months are rejected.
// @Description Pending records of the month are refreshed from current sales; liquidated ones are kept.
// @Tags commissions
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Record date"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/commissions/generate [post]
func (h *CommissionHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	if current := h.now().Format("2006-01"); req.Date[:7] != current {
		respondError(c, fmt.Errorf("%w: commissions can only be generated for the current month %s", errBadRequest, current), "")
		return
	}
	ctx := c.Request.Context()

	sellers, err := h.store.ListSellers(ctx, merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	existing, err := h.store.ListRules(ctx, merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}

	resp := GenerateResponse{Created: []domain.FinancialRecord{}, Updated: []domain.FinancialRecord{}, Skipped: []string{}}
	for _, rec := range report.CommissionRecords(report.EnsureRules(sellers, existing), sellers, req.Date) {
		prev, err := h.store.GetRecord(ctx, merchant, rec.ID)
		switch {
		case err == nil:
			if prev.Status != domain.StatusPending || sameCommission(prev, rec) {
				resp.Skipped = append(resp.Skipped, rec.ID)
				continue
			}
			if err := h.store.UpdateRecord(ctx, merchant, rec); err != nil {
				respondError(c, err, "Failed to refresh commission")
				return
			}
			rec.Status = prev.Status
			rec.CreatedAt = prev.CreatedAt
			metrics.RecordMutations.WithLabelValues(string(domain.KindCommission), "update").Inc()
			resp.Updated = append(resp.Updated, rec)
		case errors.Is(err, storage.ErrNotFound):
			created, err := h.store.CreateRecord(ctx, merchant, rec)
			if err != nil {
				respondError(c, err, "Failed to create commission")
				return
			}
			metrics.RecordMutations.WithLabelValues(string(domain.KindCommission), "create").Inc()
			resp.Created = append(resp.Created, created)
		default:
			respondError(c, err, "Internal error")
			return
		}
	}

	logger.FromContext(ctx).Info("Commissions generated", "merchant_id", merchant,
		"created", len(resp.Created), "updated", len(resp.Updated), "skipped", len(resp.Skipped))
	c.JSON(http.StatusOK, resp)
}

func sameCommission(a, b domain.FinancialRecord) bool {
	if a.Amount != b.Amount || a.Commission == nil || b.Commission == nil {
		return a.Amount == b.Amount
	}
	return a.Commission.TotalSold == b.Commission.TotalSold &&
		a.Commission.RatePercent.Equal(b.Commission.RatePercent)
}

// Liquidate godoc
// @Summary Mark a pending commission as liquidated
// @Tags commissions
// @Produce json
// @Param id path string true "Commission record id"
// @Success 200 {object} domain.FinancialRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/commissions/liquidate/{id} [post]
func (h *CommissionHandler) Liquidate(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rec, err := h.store.GetRecord(ctx, merchant, c.Param("id"))
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	if rec.Kind != domain.KindCommission {
		respondError(c, fmt.Errorf("%w: record is %s", domain.ErrKindMismatch, rec.Kind), "")
		return
	}

	moved, err := h.store.UpdateStatus(ctx, merchant, rec.ID, domain.StatusLiquidated)
	if err != nil {
		respondError(c, err, "Failed to liquidate commission")
		return
	}
	metrics.RecordMutations.WithLabelValues(string(domain.KindCommission), "status").Inc()
	c.JSON(http.StatusOK, moved)
}

// === DTO ===

type RuleRequest struct {
	SellerName  string `json:"seller_name" validate:"required,notblank,max=200"`
	RatePercent string `json:"rate_percent" validate:"max=16"`
	Goal        *int64 `json:"goal" validate:"omitempty,gte=0"`
	Active      *bool  `json:"active"`
}

type SellerRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=200"`
	SalesMonth int64  `json:"sales_month" validate:"gte=0"`
}

type GenerateRequest struct {
	Date string `json:"date" validate:"required,isodate"`
}

type GenerateResponse struct {
	Created []domain.FinancialRecord `json:"created"`
	Updated []domain.FinancialRecord `json:"updated"`
	Skipped []string                 `json:"skipped"`
}
