package memory

import (
	"context"
	"testing"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/storage"
	"bayup-finance/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageConformance(t *testing.T) {
	storagetest.Run(t, NewStorage())
}

func TestRecordLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	created, err := s.CreateRecord(ctx, 1, domain.FinancialRecord{
		Kind:        domain.KindExpense,
		Description: "Domicilios",
		Amount:      45000,
		Category:    domain.CategoryDailyExpense,
		Status:      domain.StatusPending,
		Date:        "2025-03-15",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetRecord(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.GetRecord(ctx, 2, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	paid, err := s.UpdateStatus(ctx, 1, created.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)

	_, err = s.UpdateStatus(ctx, 1, created.ID, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, s.DeleteRecord(ctx, 1, created.ID))
	assert.ErrorIs(t, s.DeleteRecord(ctx, 1, created.ID), storage.ErrNotFound)
}

func TestSnapshotsAreNotShared(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	_, err := s.CreateRecord(ctx, 1, domain.FinancialRecord{Kind: domain.KindExpense, Description: "a", Amount: 1, Date: "2025-01-01"})
	require.NoError(t, err)

	before, err := s.ListRecords(ctx, 1, "")
	require.NoError(t, err)
	before[0].Amount = 999

	_, err = s.CreateRecord(ctx, 1, domain.FinancialRecord{Kind: domain.KindExpense, Description: "b", Amount: 2, Date: "2025-01-02"})
	require.NoError(t, err)

	after, err := s.ListRecords(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, int64(1), after[0].Amount)
	assert.Equal(t, "b", after[1].Description)
	assert.Len(t, before, 1)
}

func TestUpdateRecordKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	r, err := s.CreateRecord(ctx, 1, domain.FinancialRecord{
		Kind:          domain.KindPurchaseOrder,
		Description:   "Camisetas",
		Amount:        100,
		Date:          "2025-03-10",
		PurchaseOrder: &domain.PurchaseOrderDetails{Items: []domain.OrderItem{{Name: "Camisetas", Qty: 1}}, SendingMethod: domain.SendReminder},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, r.Status)
	assert.Equal(t, domain.CategoryPurchase, r.Category)

	r.Amount = 200
	r.Status = domain.StatusReceived
	require.NoError(t, s.UpdateRecord(ctx, 1, r))

	got, err := s.GetRecord(ctx, 1, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Amount)
	assert.Equal(t, domain.StatusScheduled, got.Status)
}

func TestListRecordsByKind(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	_, err := s.CreateRecord(ctx, 1, domain.FinancialRecord{Kind: domain.KindExpense, Date: "2025-01-01"})
	require.NoError(t, err)
	_, err = s.CreateRecord(ctx, 1, domain.FinancialRecord{Kind: domain.KindCommission, Date: "2025-01-01", Commission: &domain.CommissionDetails{SellerID: "s1"}})
	require.NoError(t, err)

	list, err := s.ListRecords(ctx, 1, domain.KindCommission)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusPending, list[0].Status)
}

func TestCreateRejectsMismatchedVariant(t *testing.T) {
	_, err := NewStorage().CreateRecord(context.Background(), 1, domain.FinancialRecord{Kind: domain.KindPurchaseOrder})
	assert.ErrorIs(t, err, domain.ErrKindMismatch)
}

func TestProductsAndRules(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	p, err := s.SaveProduct(ctx, 1, domain.Product{Name: "Camisa", Cost: 100, RetailPrice: 200})
	require.NoError(t, err)
	p.RetailPrice = 250
	_, err = s.SaveProduct(ctx, 1, p)
	require.NoError(t, err)

	list, err := s.ListProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(250), list[0].RetailPrice)

	require.NoError(t, s.UpsertSeller(ctx, 1, domain.Seller{ID: "s1", Name: "Lorena"}))
	require.NoError(t, s.UpsertRule(ctx, 1, domain.CommissionRule{SellerID: "s1", SellerName: "Lorena", Active: true}))
	require.NoError(t, s.UpsertRule(ctx, 1, domain.CommissionRule{SellerID: "s1", SellerName: "Lorena", Active: false}))

	rules, err := s.ListRules(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.False(t, rules[0].Active)

	require.NoError(t, s.DeleteProduct(ctx, 1, p.ID))
	_, err = s.GetProduct(ctx, 1, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
