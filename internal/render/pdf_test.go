package render

import (
	"bytes"
	"testing"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/money"
	"bayup-finance/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReport(t *testing.T) {
	f := money.MustNew(money.Options{ThousandsSep: "."})
	records := []domain.FinancialRecord{
		{ID: "e1", Description: "Arriendo local", Amount: 2500000, Category: domain.CategoryFixedExpense, Status: domain.StatusPaid, Date: "2025-03-01"},
		{ID: "e2", Description: "Comisión Lorena Gómez", Amount: 150000, Category: domain.CategoryCommission, Status: domain.StatusPending, Date: "2025-03-31"},
	}
	doc := report.NewDocument("Gastos operativos", nil, records, f)

	r := NewPDFRenderer("SEBAS STORE")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, doc))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestRenderPurchaseOrder(t *testing.T) {
	f := money.MustNew(money.Options{ThousandsSep: "."})
	r := NewPDFRenderer("SEBAS STORE")

	po := domain.FinancialRecord{
		ID:           "3f2a9c10-aaaa-bbbb-cccc-000000000000",
		Kind:         domain.KindPurchaseOrder,
		Description:  "Camisetas y 1 más...",
		Amount:       1200000,
		Status:       domain.StatusSent,
		Date:         "2025-03-10",
		RelatedParty: "Textiles Andinos",
		PurchaseOrder: &domain.PurchaseOrderDetails{
			Items:         []domain.OrderItem{{Name: "Camisetas", Qty: 20}, {Name: "Gorras", Qty: 10}},
			SendingMethod: domain.SendWhatsApp,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.PurchaseOrder(&buf, po, f))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	t.Run("total quantity row", func(t *testing.T) {
		plain := NewPDFRenderer("SEBAS STORE")
		plain.uncompressed = true
		var out bytes.Buffer
		require.NoError(t, plain.PurchaseOrder(&out, po, f))
		assert.Contains(t, out.String(), "(TOTAL UNIDADES)")
		assert.Contains(t, out.String(), "(30)")
	})

	t.Run("rejects other kinds", func(t *testing.T) {
		var out bytes.Buffer
		err := r.PurchaseOrder(&out, domain.FinancialRecord{Kind: domain.KindExpense}, f)
		assert.ErrorIs(t, err, domain.ErrKindMismatch)
		assert.Zero(t, out.Len())
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
