// internal/validator/validator.go
package validator

import (
	"html"
	"regexp"
	"strings"
	"time"

	"bayup-finance/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	Validate *validator.Validate

	nonSpace = regexp.MustCompile(`\S`)
	strict   = bluemonday.StrictPolicy()
)

func init() {
	Validate = validator.New()

	// Месяц: "2024-12"
	_ = Validate.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})

	// Дата записи: "2024-12-31"
	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.ISODateLayout, fl.Field().String())
		return err == nil
	})

	// Строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("recordkind", func(fl validator.FieldLevel) bool {
		return domain.RecordKind(fl.Field().String()).Valid()
	})
}

// SanitizeText strips markup from user free text and trims it.
// Entities are decoded back since the text goes to JSON and PDF, not HTML.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
