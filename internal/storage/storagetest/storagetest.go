// internal/storage/storagetest/storagetest.go
package storagetest

import (
	"context"
	"testing"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run checks the behaviour every storage.Store must share.
// Merchant ids are derived from the clock so a persistent database can be reused between runs.
func Run(t *testing.T, store storage.Store) {
	base := time.Now().UnixNano() / 1000

	t.Run("record ids are scoped per merchant", func(t *testing.T) {
		testRecordIDsPerMerchant(t, store, base, base+1)
	})
	t.Run("duplicate record id", func(t *testing.T) {
		testDuplicateRecord(t, store, base+2)
	})
	t.Run("product ids are scoped per merchant", func(t *testing.T) {
		testProductIDsPerMerchant(t, store, base+3, base+4)
	})
	t.Run("record lifecycle", func(t *testing.T) {
		testRecordLifecycle(t, store, base+5)
	})
	t.Run("commission rules", func(t *testing.T) {
		testRules(t, store, base+6)
	})
}

func commission(sellerID, month string, amount int64) domain.FinancialRecord {
	return domain.FinancialRecord{
		ID:           "c_" + sellerID + "_" + month,
		Kind:         domain.KindCommission,
		Description:  "Comisión " + sellerID,
		Amount:       amount,
		Date:         month + "-15",
		RelatedParty: sellerID,
		Commission:   &domain.CommissionDetails{SellerID: sellerID, TotalSold: amount * 40, RatePercent: decimal.RequireFromString("2.5")},
	}
}

func testRecordIDsPerMerchant(t *testing.T, store storage.Store, m1, m2 int64) {
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, m1, commission("s1", "2025-03", 100))
	require.NoError(t, err)
	_, err = store.CreateRecord(ctx, m2, commission("s1", "2025-03", 200))
	require.NoError(t, err)

	r1, err := store.GetRecord(ctx, m1, "c_s1_2025-03")
	require.NoError(t, err)
	r2, err := store.GetRecord(ctx, m2, "c_s1_2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(100), r1.Amount)
	assert.Equal(t, int64(200), r2.Amount)

	_, err = store.UpdateStatus(ctx, m2, "c_s1_2025-03", domain.StatusLiquidated)
	require.NoError(t, err)
	r1, err = store.GetRecord(ctx, m1, "c_s1_2025-03")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, r1.Status)

	require.NoError(t, store.DeleteRecord(ctx, m1, "c_s1_2025-03"))
	_, err = store.GetRecord(ctx, m2, "c_s1_2025-03")
	assert.NoError(t, err)
}

func testDuplicateRecord(t *testing.T, store storage.Store, m int64) {
	ctx := context.Background()

	_, err := store.CreateRecord(ctx, m, commission("s9", "2025-03", 1))
	require.NoError(t, err)
	_, err = store.CreateRecord(ctx, m, commission("s9", "2025-03", 2))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func testProductIDsPerMerchant(t *testing.T, store storage.Store, m1, m2 int64) {
	ctx := context.Background()

	_, err := store.SaveProduct(ctx, m1, domain.Product{ID: "camisa", Name: "Camisa", Cost: 100, RetailPrice: 200})
	require.NoError(t, err)
	_, err = store.SaveProduct(ctx, m2, domain.Product{ID: "camisa", Name: "Camisa azul", Cost: 300, RetailPrice: 500})
	require.NoError(t, err)

	p1, err := store.GetProduct(ctx, m1, "camisa")
	require.NoError(t, err)
	p2, err := store.GetProduct(ctx, m2, "camisa")
	require.NoError(t, err)
	assert.Equal(t, "Camisa", p1.Name)
	assert.Equal(t, "Camisa azul", p2.Name)
	assert.Equal(t, int64(500), p2.RetailPrice)

	p2.RetailPrice = 550
	_, err = store.SaveProduct(ctx, m2, p2)
	require.NoError(t, err)
	list, err := store.ListProducts(ctx, m2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(550), list[0].RetailPrice)
}

func testRecordLifecycle(t *testing.T, store storage.Store, m int64) {
	ctx := context.Background()

	created, err := store.CreateRecord(ctx, m, domain.FinancialRecord{
		Kind:        domain.KindExpense,
		Description: "Domicilios",
		Amount:      45000,
		Category:    domain.CategoryDailyExpense,
		Date:        "2025-03-15",
		Expense:     &domain.ExpenseDetails{},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	created.Amount = 50000
	created.Status = domain.StatusPaid
	require.NoError(t, store.UpdateRecord(ctx, m, created))
	got, err := store.GetRecord(ctx, m, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), got.Amount)
	assert.Equal(t, domain.StatusPending, got.Status)

	paid, err := store.UpdateStatus(ctx, m, created.ID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)
	_, err = store.UpdateStatus(ctx, m, created.ID, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := store.ListRecords(ctx, m, domain.KindExpense)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeleteRecord(ctx, m, created.ID))
	assert.ErrorIs(t, store.DeleteRecord(ctx, m, created.ID), storage.ErrNotFound)
}

func testRules(t *testing.T, store storage.Store, m int64) {
	ctx := context.Background()

	require.NoError(t, store.UpsertSeller(ctx, m, domain.Seller{ID: "s1", Name: "Lorena", SalesMonth: 1000}))
	require.NoError(t, store.UpsertRule(ctx, m, domain.CommissionRule{SellerID: "s1", SellerName: "Lorena", RatePercent: decimal.RequireFromString("2.125"), Goal: 10, Active: true}))

	rules, err := store.ListRules(ctx, m)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, decimal.RequireFromString("2.125").Equal(rules[0].RatePercent))

	sellers, err := store.ListSellers(ctx, m)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, int64(1000), sellers[0].SalesMonth)
}
