// internal/handler/pricing.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	calc *pricing.Calculator
	f    *money.Formatter
}

func NewPricingHandler(calc *pricing.Calculator, f *money.Formatter) *PricingHandler {
	return &PricingHandler{calc: calc, f: f}
}

// FormattedMargin is a MarginResult as the dashboard shows it.
type FormattedMargin struct {
	GrossPrice    string `json:"gross_price"`
	Cost          string `json:"cost"`
	PlatformFee   string `json:"platform_fee"`
	GatewayFee    string `json:"gateway_fee"`
	NetProfit     string `json:"net_profit"`
	MarginPercent string `json:"margin_percent"`
}

type MarginView struct {
	domain.MarginResult
	Formatted FormattedMargin `json:"formatted"`
}

type DualMarginsView struct {
	Retail    MarginView `json:"retail"`
	Wholesale MarginView `json:"wholesale"`
}

func marginView(m domain.MarginResult, f *money.Formatter) MarginView {
	return MarginView{
		MarginResult: m,
		Formatted: FormattedMargin{
			GrossPrice:    f.CurrencyDecimal(m.GrossPrice),
			Cost:          f.CurrencyDecimal(m.Cost),
			PlatformFee:   f.CurrencyDecimal(m.PlatformFee),
			GatewayFee:    f.CurrencyDecimal(m.GatewayFee),
			NetProfit:     f.CurrencyDecimal(m.NetProfit),
			MarginPercent: f.Percent(m.MarginPercent),
		},
	}
}

func dualView(d pricing.DualMargins, f *money.Formatter) DualMarginsView {
	return DualMarginsView{Retail: marginView(d.Retail, f), Wholesale: marginView(d.Wholesale, f)}
}

// Margins godoc
// @Summary Compute retail and wholesale margins for a product draft
// @Description Amounts arrive as display text ("120.000"); unparseable fields count as 0 and are listed in invalid_fields
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body MarginsRequest true "Draft prices"
// @Success 200 {object} MarginsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/pricing/margins [post]
func (h *PricingHandler) Margins(c *gin.Context) {
	var req MarginsRequest
	if !bindJSON(c, &req) {
		return
	}

	invalid := []string{}
	parse := func(field, raw string) domain.MoneyAmount {
		// пустое поле пользователь ещё не заполнил, это не ошибка
		if strings.TrimSpace(raw) == "" {
			return 0
		}
		n, err := money.ParseField(field, raw)
		var ife *money.InputFormatError
		if errors.As(err, &ife) {
			invalid = append(invalid, ife.Field)
		}
		return n
	}

	retailPrice := parse("retail_price", req.RetailPrice)
	wholesalePrice := parse("wholesale_price", req.WholesalePrice)
	cost := parse("cost", req.Cost)
	if len(invalid) > 0 {
		metrics.InvalidAmountInputs.Add(float64(len(invalid)))
	}

	retail, wholesale := pricing.NewTiers(retailPrice, wholesalePrice, cost, req.GatewayFeeEnabled)
	margins := h.calc.Dual(retail, wholesale)
	metrics.MarginsComputed.WithLabelValues("api").Inc()

	c.JSON(http.StatusOK, MarginsResponse{
		Inputs: MarginsInputs{
			RetailPrice:    h.f.DisplayRaw(req.RetailPrice),
			WholesalePrice: h.f.DisplayRaw(req.WholesalePrice),
			Cost:           h.f.DisplayRaw(req.Cost),
		},
		Margins:       dualView(margins, h.f),
		InvalidFields: invalid,
	})
}

// === DTO ===

type MarginsRequest struct {
	RetailPrice       string `json:"retail_price" validate:"max=40"`
	WholesalePrice    string `json:"wholesale_price" validate:"max=40"`
	Cost              string `json:"cost" validate:"max=40"`
	GatewayFeeEnabled bool   `json:"gateway_fee_enabled"`
}

// MarginsInputs echoes the inputs reformatted, as the price fields re-render while typing.
type MarginsInputs struct {
	RetailPrice    string `json:"retail_price"`
	WholesalePrice string `json:"wholesale_price"`
	Cost           string `json:"cost"`
}

type MarginsResponse struct {
	Inputs        MarginsInputs   `json:"inputs"`
	Margins       DualMarginsView `json:"margins"`
	InvalidFields []string        `json:"invalid_fields"`
}
