// internal/storage/prepare.go
package storage

import (
	"fmt"
	"time"

	"bayup-finance/internal/domain"

	"github.com/google/uuid"
)

// PrepareRecord fills id, creation time and defaults before a record is stored.
func PrepareRecord(r domain.FinancialRecord, now time.Time) (domain.FinancialRecord, error) {
	if err := r.CheckVariant(); err != nil {
		return r, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	if r.Category == "" {
		r.Category = domain.DefaultCategory(r.Kind)
	}
	if r.Status == "" {
		var method domain.SendingMethod
		if r.PurchaseOrder != nil {
			method = r.PurchaseOrder.SendingMethod
		}
		r.Status = domain.DefaultStatus(r.Kind, method)
	}
	if !domain.ValidStatus(r.Kind, r.Status) {
		return r, fmt.Errorf("%w: %q is not a %s status", domain.ErrInvalidTransition, r.Status, r.Kind)
	}
	return r, nil
}

// PrepareProduct fills id and creation time.
func PrepareProduct(p domain.Product, now time.Time) domain.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now.UTC()
	}
	return p
}
