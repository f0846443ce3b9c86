// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"bayup-finance/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// RecordStorage keeps financial records per merchant.
// ListRecords returns records in insertion order.
type RecordStorage interface {
	CreateRecord(ctx context.Context, merchantID int64, r domain.FinancialRecord) (domain.FinancialRecord, error)
	GetRecord(ctx context.Context, merchantID int64, id string) (domain.FinancialRecord, error)
	ListRecords(ctx context.Context, merchantID int64, kind domain.RecordKind) ([]domain.FinancialRecord, error)
	UpdateRecord(ctx context.Context, merchantID int64, r domain.FinancialRecord) error
	UpdateStatus(ctx context.Context, merchantID int64, id string, to domain.Status) (domain.FinancialRecord, error)
	DeleteRecord(ctx context.Context, merchantID int64, id string) error
}

type ProductStorage interface {
	SaveProduct(ctx context.Context, merchantID int64, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, merchantID int64, id string) (domain.Product, error)
	ListProducts(ctx context.Context, merchantID int64) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, merchantID int64, id string) error
}

type CommissionStorage interface {
	ListRules(ctx context.Context, merchantID int64) ([]domain.CommissionRule, error)
	UpsertRule(ctx context.Context, merchantID int64, rule domain.CommissionRule) error
	ListSellers(ctx context.Context, merchantID int64) ([]domain.Seller, error)
	UpsertSeller(ctx context.Context, merchantID int64, s domain.Seller) error
}

// Store is everything the API and the bot need.
type Store interface {
	RecordStorage
	ProductStorage
	CommissionStorage
}
