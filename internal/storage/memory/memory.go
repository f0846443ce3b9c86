// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/storage"
)

// snapshot is never modified after it is published; every write builds a new one.
type snapshot struct {
	records  []domain.FinancialRecord
	products []domain.Product
	rules    []domain.CommissionRule
	sellers  []domain.Seller
}

// Storage keeps one immutable snapshot per merchant. Used for local demos and tests.
var _ storage.Store = (*Storage)(nil)

type Storage struct {
	mu   sync.RWMutex
	data map[int64]*snapshot
	now  func() time.Time
}

func NewStorage() *Storage {
	return &Storage{data: make(map[int64]*snapshot), now: time.Now}
}

func (s *Storage) read(merchantID int64) *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.data[merchantID]; ok {
		return snap
	}
	return &snapshot{}
}

// update runs fn on a copy of the merchant snapshot and publishes the result if fn succeeds.
func (s *Storage) update(merchantID int64, fn func(next *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[merchantID]
	if !ok {
		cur = &snapshot{}
	}
	next := &snapshot{
		records:  slices.Clone(cur.records),
		products: slices.Clone(cur.products),
		rules:    slices.Clone(cur.rules),
		sellers:  slices.Clone(cur.sellers),
	}
	if err := fn(next); err != nil {
		return err
	}
	s.data[merchantID] = next
	return nil
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, storage.ErrNotFound)
}

// === RecordStorage ===

func (s *Storage) CreateRecord(_ context.Context, merchantID int64, r domain.FinancialRecord) (domain.FinancialRecord, error) {
	r, err := storage.PrepareRecord(r, s.now())
	if err != nil {
		return r, err
	}
	err = s.update(merchantID, func(next *snapshot) error {
		if slices.ContainsFunc(next.records, func(x domain.FinancialRecord) bool { return x.ID == r.ID }) {
			return fmt.Errorf("record %q: %w", r.ID, storage.ErrAlreadyExists)
		}
		next.records = append(next.records, r)
		return nil
	})
	return r, err
}

func (s *Storage) GetRecord(_ context.Context, merchantID int64, id string) (domain.FinancialRecord, error) {
	for _, r := range s.read(merchantID).records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.FinancialRecord{}, notFound("record", id)
}

func (s *Storage) ListRecords(_ context.Context, merchantID int64, kind domain.RecordKind) ([]domain.FinancialRecord, error) {
	out := []domain.FinancialRecord{}
	for _, r := range s.read(merchantID).records {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Storage) UpdateRecord(_ context.Context, merchantID int64, r domain.FinancialRecord) error {
	if err := r.CheckVariant(); err != nil {
		return err
	}
	return s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.records, func(x domain.FinancialRecord) bool { return x.ID == r.ID && x.Kind == r.Kind })
		if i < 0 {
			return notFound("record", r.ID)
		}
		// status and creation time only change through their own paths
		r.Status = next.records[i].Status
		r.CreatedAt = next.records[i].CreatedAt
		next.records[i] = r
		return nil
	})
}

func (s *Storage) UpdateStatus(_ context.Context, merchantID int64, id string, to domain.Status) (domain.FinancialRecord, error) {
	var moved domain.FinancialRecord
	err := s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.records, func(x domain.FinancialRecord) bool { return x.ID == id })
		if i < 0 {
			return notFound("record", id)
		}
		var err error
		moved, err = next.records[i].WithStatus(to)
		if err != nil {
			return err
		}
		next.records[i] = moved
		return nil
	})
	return moved, err
}

func (s *Storage) DeleteRecord(_ context.Context, merchantID int64, id string) error {
	return s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.records, func(x domain.FinancialRecord) bool { return x.ID == id })
		if i < 0 {
			return notFound("record", id)
		}
		next.records = slices.Delete(next.records, i, i+1)
		return nil
	})
}

// === ProductStorage ===

func (s *Storage) SaveProduct(_ context.Context, merchantID int64, p domain.Product) (domain.Product, error) {
	p = storage.PrepareProduct(p, s.now())
	err := s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.products, func(x domain.Product) bool { return x.ID == p.ID })
		if i < 0 {
			next.products = append(next.products, p)
			return nil
		}
		p.CreatedAt = next.products[i].CreatedAt
		next.products[i] = p
		return nil
	})
	return p, err
}

func (s *Storage) GetProduct(_ context.Context, merchantID int64, id string) (domain.Product, error) {
	for _, p := range s.read(merchantID).products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, notFound("product", id)
}

func (s *Storage) ListProducts(_ context.Context, merchantID int64) ([]domain.Product, error) {
	return append([]domain.Product{}, s.read(merchantID).products...), nil
}

func (s *Storage) DeleteProduct(_ context.Context, merchantID int64, id string) error {
	return s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.products, func(x domain.Product) bool { return x.ID == id })
		if i < 0 {
			return notFound("product", id)
		}
		next.products = slices.Delete(next.products, i, i+1)
		return nil
	})
}

// === CommissionStorage ===

func (s *Storage) ListRules(_ context.Context, merchantID int64) ([]domain.CommissionRule, error) {
	return append([]domain.CommissionRule{}, s.read(merchantID).rules...), nil
}

func (s *Storage) UpsertRule(_ context.Context, merchantID int64, rule domain.CommissionRule) error {
	return s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.rules, func(x domain.CommissionRule) bool { return x.SellerID == rule.SellerID })
		if i < 0 {
			next.rules = append(next.rules, rule)
		} else {
			next.rules[i] = rule
		}
		return nil
	})
}

func (s *Storage) ListSellers(_ context.Context, merchantID int64) ([]domain.Seller, error) {
	return append([]domain.Seller{}, s.read(merchantID).sellers...), nil
}

func (s *Storage) UpsertSeller(_ context.Context, merchantID int64, sl domain.Seller) error {
	return s.update(merchantID, func(next *snapshot) error {
		i := slices.IndexFunc(next.sellers, func(x domain.Seller) bool { return x.ID == sl.ID })
		if i < 0 {
			next.sellers = append(next.sellers, sl)
		} else {
			next.sellers[i] = sl
		}
		return nil
	})
}
