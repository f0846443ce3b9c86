// internal/domain/models.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyAmount — сумма в целых единицах валюты, без центов.
type MoneyAmount = int64

// ISODateLayout is the wire and storage layout of FinancialRecord.Date.
const ISODateLayout = "2006-01-02"

type RecordKind string

const (
	KindExpense       RecordKind = "expense"
	KindPurchaseOrder RecordKind = "purchase_order"
	KindCommission    RecordKind = "commission"
)

func (k RecordKind) Valid() bool {
	switch k {
	case KindExpense, KindPurchaseOrder, KindCommission:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusScheduled  Status = "scheduled"
	StatusSent       Status = "sent"
	StatusReceived   Status = "received"
	StatusLiquidated Status = "liquidated"
)

// Settled statuses do not count towards the pending total.
func (s Status) Settled() bool {
	return s == StatusPaid || s == StatusReceived || s == StatusLiquidated
}

const (
	CategoryFixedExpense = "operativo_fijo"
	CategoryDailyExpense = "operativo_diario"
	CategoryOther        = "other"
	CategoryPurchase     = "compras"
	CategoryCommission   = "comisiones"
)

type SendingMethod string

const (
	SendWhatsApp SendingMethod = "whatsapp"
	SendEmail    SendingMethod = "email"
	SendReminder SendingMethod = "reminder"
)

var (
	ErrKindMismatch      = errors.New("record details do not match kind")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// PriceTier — цена и себестоимость для одного канала продаж.
type PriceTier struct {
	Price             MoneyAmount `json:"price"`
	Cost              MoneyAmount `json:"cost"`
	GatewayFeeEnabled bool        `json:"gateway_fee_enabled"`
}

// MarginResult is derived from a PriceTier and never stored.
type MarginResult struct {
	GrossPrice    decimal.Decimal `json:"gross_price"`
	Cost          decimal.Decimal `json:"cost"`
	PlatformFee   decimal.Decimal `json:"platform_fee"`
	GatewayFee    decimal.Decimal `json:"gateway_fee"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

type OrderItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type ExpenseDetails struct {
	Notes string `json:"notes,omitempty"`
}

type PurchaseOrderDetails struct {
	Items         []OrderItem   `json:"items"`
	SendingMethod SendingMethod `json:"sending_method"`
	ScheduledAt   *time.Time    `json:"scheduled_at,omitempty"`
}

type CommissionDetails struct {
	SellerID    string          `json:"seller_id"`
	TotalSold   MoneyAmount     `json:"total_sold"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// FinancialRecord — расход, заказ поставщику или комиссия.
// Exactly one of the detail pointers is set, the one matching Kind.
type FinancialRecord struct {
	ID           string      `json:"id"`
	Kind         RecordKind  `json:"kind"`
	Description  string      `json:"description"`
	Amount       MoneyAmount `json:"amount"`
	Category     string      `json:"category"`
	Status       Status      `json:"status"`
	Date         string      `json:"date"`
	RelatedParty string      `json:"related_party"`
	CreatedAt    time.Time   `json:"created_at"`

	Expense       *ExpenseDetails       `json:"expense,omitempty"`
	PurchaseOrder *PurchaseOrderDetails `json:"purchase_order,omitempty"`
	Commission    *CommissionDetails    `json:"commission,omitempty"`
}

// CheckVariant verifies that the detail payload agrees with Kind.
func (r FinancialRecord) CheckVariant() error {
	set := 0
	if r.Expense != nil {
		set++
	}
	if r.PurchaseOrder != nil {
		set++
	}
	if r.Commission != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: more than one detail set", ErrKindMismatch)
	}

	switch r.Kind {
	case KindExpense:
		if r.PurchaseOrder != nil || r.Commission != nil {
			return fmt.Errorf("%w: %s", ErrKindMismatch, r.Kind)
		}
	case KindPurchaseOrder:
		if r.PurchaseOrder == nil {
			return fmt.Errorf("%w: %s needs purchase_order details", ErrKindMismatch, r.Kind)
		}
	case KindCommission:
		if r.Commission == nil {
			return fmt.Errorf("%w: %s needs commission details", ErrKindMismatch, r.Kind)
		}
	default:
		return fmt.Errorf("unknown record kind %q", r.Kind)
	}
	return nil
}

// WithStatus returns a copy of r moved to status to.
func (r FinancialRecord) WithStatus(to Status) (FinancialRecord, error) {
	if err := CheckTransition(r.Kind, r.Status, to); err != nil {
		return r, err
	}
	r.Status = to
	return r, nil
}

type CommissionRule struct {
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	Goal        MoneyAmount     `json:"goal"`
	Active      bool            `json:"active"`
}

// Seller — продавец и его продажи за месяц.
type Seller struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	SalesMonth MoneyAmount `json:"sales_month"`
}

type Product struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Cost              MoneyAmount `json:"cost"`
	RetailPrice       MoneyAmount `json:"retail_price"`
	WholesalePrice    MoneyAmount `json:"wholesale_price"`
	GatewayFeeEnabled bool        `json:"gateway_fee_enabled"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Tiers splits a product into its retail and wholesale tiers.
// Both share cost and the gateway toggle.
func (p Product) Tiers() (retail, wholesale PriceTier) {
	retail = PriceTier{Price: p.RetailPrice, Cost: p.Cost, GatewayFeeEnabled: p.GatewayFeeEnabled}
	wholesale = PriceTier{Price: p.WholesalePrice, Cost: p.Cost, GatewayFeeEnabled: p.GatewayFeeEnabled}
	return retail, wholesale
}
