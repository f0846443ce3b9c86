// internal/pricing/fees.go
package pricing

import (
	"bayup-finance/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	DefaultPlatformCommissionRate = decimal.RequireFromString("0.025")
	DefaultGatewayFeeRate         = decimal.RequireFromString("0.035")

	hundred = decimal.NewFromInt(100)
)

// FeeSchedule is process-wide configuration, not per product.
type FeeSchedule struct {
	PlatformCommissionRate decimal.Decimal
	GatewayFeeRate         decimal.Decimal
}

func DefaultSchedule() FeeSchedule {
	return FeeSchedule{
		PlatformCommissionRate: DefaultPlatformCommissionRate,
		GatewayFeeRate:         DefaultGatewayFeeRate,
	}
}

// Price and cost must be >= 0; the formatter layer guarantees it.
// Nothing here rounds: values stay exact until they are displayed.

func (s FeeSchedule) PlatformFee(price domain.MoneyAmount) decimal.Decimal {
	return decimal.NewFromInt(price).Mul(s.PlatformCommissionRate)
}

func (s FeeSchedule) GatewayFee(price domain.MoneyAmount, enabled bool) decimal.Decimal {
	if !enabled {
		return decimal.Zero
	}
	return decimal.NewFromInt(price).Mul(s.GatewayFeeRate)
}

func (s FeeSchedule) NetProfit(price, cost domain.MoneyAmount, enabled bool) decimal.Decimal {
	return decimal.NewFromInt(price).
		Sub(decimal.NewFromInt(cost)).
		Sub(s.PlatformFee(price)).
		Sub(s.GatewayFee(price, enabled))
}

// MarginPercent is 0 for a zero price.
func (s FeeSchedule) MarginPercent(price, cost domain.MoneyAmount, enabled bool) decimal.Decimal {
	if price <= 0 {
		return decimal.Zero
	}
	return s.NetProfit(price, cost, enabled).Mul(hundred).Div(decimal.NewFromInt(price))
}

// Margin computes the full breakdown for one tier.
func (s FeeSchedule) Margin(t domain.PriceTier) domain.MarginResult {
	platform := s.PlatformFee(t.Price)
	gateway := s.GatewayFee(t.Price, t.GatewayFeeEnabled)
	gross := decimal.NewFromInt(t.Price)
	cost := decimal.NewFromInt(t.Cost)
	net := gross.Sub(cost).Sub(platform).Sub(gateway)

	margin := decimal.Zero
	if t.Price > 0 {
		margin = net.Mul(hundred).Div(gross)
	}

	return domain.MarginResult{
		GrossPrice:    gross,
		Cost:          cost,
		PlatformFee:   platform,
		GatewayFee:    gateway,
		NetProfit:     net,
		MarginPercent: margin,
	}
}
