// internal/handler/router.go
package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"bayup-finance/internal/auth"
	"bayup-finance/internal/middleware"
	"bayup-finance/internal/money"
	"bayup-finance/internal/pricing"
	"bayup-finance/internal/render"
	"bayup-finance/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is what the API needs to serve requests.
type Deps struct {
	Store       storage.Store
	Tokens      *auth.TokenService
	Calculator  *pricing.Calculator
	Formatter   *money.Formatter
	Renderer    render.Renderer
	PageSize    int
	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger
	// LoginSecret guards /api/v1/login; empty disables it.
	LoginSecret string
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires every /api/v1 route plus /health and /metrics.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(d.Logger), middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/v1/login", Login(d.Tokens, d.LoginSecret))

	pricingH := NewPricingHandler(d.Calculator, d.Formatter)
	productH := NewProductHandler(d.Store, d.Calculator, d.Formatter)
	recordH := NewRecordHandler(d.Store)
	reportH := NewReportHandler(d.Store, d.Formatter, d.Renderer, d.PageSize)
	commissionH := NewCommissionHandler(d.Store, d.Formatter, d.Now)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.NewAuthMiddleware(d.Tokens).RequireAuth())
	if d.RateLimiter != nil {
		v1.Use(d.RateLimiter.Limit())
	}
	{
		v1.POST("/pricing/margins", pricingH.Margins)

		v1.POST("/products", productH.SaveProduct)
		v1.GET("/products", productH.ListProducts)
		v1.GET("/products/:id", productH.GetProduct)
		v1.DELETE("/products/:id", productH.DeleteProduct)

		v1.POST("/records", recordH.CreateRecord)
		v1.GET("/records", recordH.ListRecords)
		v1.GET("/records/:id", recordH.GetRecord)
		v1.PUT("/records/:id", recordH.UpdateRecord)
		v1.PATCH("/records/:id/status", recordH.UpdateStatus)
		v1.DELETE("/records/:id", recordH.DeleteRecord)

		v1.GET("/reports/summary", reportH.Summary)
		v1.GET("/reports/pdf", reportH.PDF)
		v1.GET("/purchase-orders/:id/pdf", reportH.PurchaseOrderPDF)

		v1.GET("/commission-rules", commissionH.ListRules)
		v1.PUT("/commission-rules/:seller_id", commissionH.UpsertRule)
		v1.GET("/sellers", commissionH.ListSellers)
		v1.PUT("/sellers/:id", commissionH.UpsertSeller)
		v1.POST("/commissions/generate", commissionH.Generate)
		v1.POST("/commissions/liquidate/:id", commissionH.Liquidate)
	}
	return router
}

type LoginRequest struct {
	MerchantID int64  `json:"merchant_id" validate:"required,gte=1"`
	Secret     string `json:"secret" validate:"required,max=256"`
}

// Login godoc
// @Summary Issue a bearer token for a merchant to the front end holding the login secret
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Merchant"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/login [post]
func Login(tokens *auth.TokenService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login disabled"})
			return
		}
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		token, err := tokens.GenerateToken(req.MerchantID)
		if err != nil {
			respondError(c, err, "token generation failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
