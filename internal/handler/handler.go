// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/logger"
	"bayup-finance/internal/middleware"
	"bayup-finance/internal/money"
	"bayup-finance/internal/report"
	"bayup-finance/internal/storage"
	val "bayup-finance/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errBadRequest = errors.New("bad request")

// merchantID достаёт магазин, положенный AuthMiddleware.
func merchantID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.MerchantIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "merchant_id missing"})
		return 0, false
	}
	id, ok := v.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid merchant_id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain and storage errors to HTTP statuses.
// Anything unrecognised is logged and answered with msg.
func respondError(c *gin.Context, err error, msg string) {
	var rangeErr *report.FilterRangeError
	var inputErr *money.InputFormatError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, storage.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrKindMismatch), errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": rangeErr.Error(), "start": rangeErr.Start, "end": rangeErr.End})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error(), "invalid_fields": []string{inputErr.Field}})
	default:
		logger.FromContext(c.Request.Context()).Error(msg, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		errs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "yearmonth":
		return fmt.Sprintf("%s must be in YYYY-MM format", e.Field())
	case "isodate":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "recordkind":
		return fmt.Sprintf("%s must be one of expense, purchase_order, commission", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), e.Param())
	case "min":
		if e.Param() == "1" {
			return fmt.Sprintf("%s must not be empty", e.Field())
		}
		return fmt.Sprintf("%s is too short", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// bindJSON декодирует и валидирует тело; при ошибке уже ответил 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
