package pricing

import (
	"testing"
	"time"

	"bayup-finance/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMarginWithoutGateway(t *testing.T) {
	s := DefaultSchedule()

	assert.True(t, dec("5000").Equal(s.PlatformFee(200000)))
	assert.True(t, decimal.Zero.Equal(s.GatewayFee(200000, false)))
	assert.True(t, dec("95000").Equal(s.NetProfit(200000, 100000, false)))
	assert.True(t, dec("47.5").Equal(s.MarginPercent(200000, 100000, false)))
}

func TestMarginWithGateway(t *testing.T) {
	s := DefaultSchedule()

	assert.True(t, dec("7000").Equal(s.GatewayFee(200000, true)))
	assert.True(t, dec("88000").Equal(s.NetProfit(200000, 100000, true)))
	assert.True(t, dec("44").Equal(s.MarginPercent(200000, 100000, true)))

	m := s.Margin(domain.PriceTier{Price: 200000, Cost: 100000, GatewayFeeEnabled: true})
	assert.True(t, dec("5000").Equal(m.PlatformFee))
	assert.True(t, dec("7000").Equal(m.GatewayFee))
	assert.True(t, dec("88000").Equal(m.NetProfit))
	assert.True(t, dec("44").Equal(m.MarginPercent))
}

func TestZeroPriceGuard(t *testing.T) {
	s := DefaultSchedule()
	for _, cost := range []int64{0, 1, 50000} {
		for _, enabled := range []bool{false, true} {
			assert.True(t, s.MarginPercent(0, cost, enabled).IsZero())
			assert.True(t, s.Margin(domain.PriceTier{Price: 0, Cost: cost, GatewayFeeEnabled: enabled}).MarginPercent.IsZero())
		}
	}
}

func TestProfitIdentity(t *testing.T) {
	s := DefaultSchedule()
	prices := []int64{0, 1, 3, 7, 99, 333, 12345, 199999, 4250001}
	costs := []int64{0, 1, 17, 12345, 5000000}

	for _, p := range prices {
		for _, c := range costs {
			for _, enabled := range []bool{false, true} {
				want := decimal.NewFromInt(p).
					Sub(decimal.NewFromInt(c)).
					Sub(s.PlatformFee(p)).
					Sub(s.GatewayFee(p, enabled))
				assert.True(t, want.Equal(s.NetProfit(p, c, enabled)), "price %d cost %d", p, c)
				assert.True(t, want.Equal(s.Margin(domain.PriceTier{Price: p, Cost: c, GatewayFeeEnabled: enabled}).NetProfit))
			}
		}
	}
}

func TestNegativeProfitKeepsSign(t *testing.T) {
	s := DefaultSchedule()
	m := s.Margin(domain.PriceTier{Price: 1000, Cost: 2000})
	assert.True(t, dec("-1025").Equal(m.NetProfit))
	assert.True(t, dec("-102.5").Equal(m.MarginPercent))
}

func TestDualMarginsIndependent(t *testing.T) {
	s := DefaultSchedule()
	retail, wholesale := NewTiers(200000, 150000, 100000, false)

	before := ComputeDualMargins(retail, wholesale, s)
	wholesale.Price = 120000
	after := ComputeDualMargins(retail, wholesale, s)

	assert.Equal(t, before.Retail, after.Retail)
	assert.False(t, before.Wholesale.NetProfit.Equal(after.Wholesale.NetProfit))
}

func TestCalculatorMemoMatchesSchedule(t *testing.T) {
	s := DefaultSchedule()
	for _, ttl := range []time.Duration{0, time.Minute} {
		c := NewCalculator(s, ttl)
		tier := domain.PriceTier{Price: 200000, Cost: 100000, GatewayFeeEnabled: true}

		first := c.Margin(tier)
		second := c.Margin(tier)
		assert.Equal(t, s.Margin(tier), first)
		assert.Equal(t, first, second)
	}
}

func TestCalculatorProduct(t *testing.T) {
	c := NewCalculator(DefaultSchedule(), time.Minute)
	got := c.Product(domain.Product{Cost: 100000, RetailPrice: 200000, WholesalePrice: 150000})

	assert.True(t, dec("47.5").Equal(got.Retail.MarginPercent))
	// 150000 - 100000 - 3750 = 46250
	assert.True(t, dec("46250").Equal(got.Wholesale.NetProfit))
}
