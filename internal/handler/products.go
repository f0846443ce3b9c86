// internal/handler/products.go
package handler

import (
	"net/http"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/metrics"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	store storage.ProductStorage
	calc  *pricing.Calculator
	f     *money.Formatter
}

func NewProductHandler(store storage.ProductStorage, calc *pricing.Calculator, f *money.Formatter) *ProductHandler {
	return &ProductHandler{store: store, calc: calc, f: f}
}

type ProductView struct {
	domain.Product
	Margins DualMarginsView `json:"margins"`
}

func (h *ProductHandler) view(p domain.Product) ProductView {
	metrics.MarginsComputed.WithLabelValues("product").Inc()
	return ProductView{Product: p, Margins: dualView(h.calc.Product(p), h.f)}
}

// SaveProduct godoc
// @Summary Create or replace a product with its retail and wholesale prices
// @Tags products
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product"
// @Success 201 {object} ProductView
// @Failure 400 {object} map[string]string
// @Router /api/v1/products [post]
func (h *ProductHandler) SaveProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	merchant, ok := merchantID(c)
	if !ok {
		return
	}

	saved, err := h.store.SaveProduct(c.Request.Context(), merchant, domain.Product{
		ID:                req.ID,
		Name:              val.SanitizeText(req.Name),
		Cost:              req.Cost,
		RetailPrice:       req.RetailPrice,
		WholesalePrice:    req.WholesalePrice,
		GatewayFeeEnabled: req.GatewayFeeEnabled,
	})
	if err != nil {
		respondError(c, err, "Failed to save product")
		return
	}

	logger.FromContext(c.Request.Context()).Info("Product saved", "merchant_id", merchant, "product_id", saved.ID)
	c.JSON(http.StatusCreated, h.view(saved))
}

// ListProducts godoc
// @Summary List products with margins
// @Tags products
// @Produce json
// @Success 200 {array} ProductView
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	products, err := h.store.ListProducts(c.Request.Context(), merchant)
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, h.view(p))
	}
	c.JSON(http.StatusOK, out)
}

// GetProduct godoc
// @Summary Get one product with margins
// @Tags products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} ProductView
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	p, err := h.store.GetProduct(c.Request.Context(), merchant, c.Param("id"))
	if err != nil {
		respondError(c, err, "Internal error")
		return
	}
	c.JSON(http.StatusOK, h.view(p))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Param id path string true "Product id"
// @Success 200 {object} map[string]string{"status":"ok"}
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	merchant, ok := merchantID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), merchant, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// === DTO ===

type ProductRequest struct {
	ID                string `json:"id" validate:"max=64"`
	Name              string `json:"name" validate:"required,notblank,max=200"`
	Cost              int64  `json:"cost" validate:"gte=0"`
	RetailPrice       int64  `json:"retail_price" validate:"gte=0"`
	WholesalePrice    int64  `json:"wholesale_price" validate:"gte=0"`
	GatewayFeeEnabled bool   `json:"gateway_fee_enabled"`
}
