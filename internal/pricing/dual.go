// internal/pricing/dual.go
package pricing

import (
	"fmt"
	"log/slog"
	"time"

	"bayup-finance/internal/domain"

	"github.com/patrickmn/go-cache"
)

type DualMargins struct {
	Retail    domain.MarginResult `json:"retail"`
	Wholesale domain.MarginResult `json:"wholesale"`
}

// NewTiers builds the retail and wholesale tiers of one product draft.
func NewTiers(retailPrice, wholesalePrice, cost domain.MoneyAmount, gatewayFee bool) (retail, wholesale domain.PriceTier) {
	retail = domain.PriceTier{Price: retailPrice, Cost: cost, GatewayFeeEnabled: gatewayFee}
	wholesale = domain.PriceTier{Price: wholesalePrice, Cost: cost, GatewayFeeEnabled: gatewayFee}
	return retail, wholesale
}

// ComputeDualMargins applies the schedule to each tier on its own.
func ComputeDualMargins(retail, wholesale domain.PriceTier, s FeeSchedule) DualMargins {
	return DualMargins{
		Retail:    s.Margin(retail),
		Wholesale: s.Margin(wholesale),
	}
}

// Calculator memoizes tier margins keyed on (price, cost, enabled).
// MarginResult holds only immutable decimals, so cached values are shared safely.
type Calculator struct {
	schedule FeeSchedule
	memo     *cache.Cache
}

// NewCalculator returns a calculator; ttl <= 0 disables memoization.
func NewCalculator(s FeeSchedule, ttl time.Duration) *Calculator {
	c := &Calculator{schedule: s}
	if ttl > 0 {
		c.memo = cache.New(ttl, 2*ttl)
	}
	return c
}

func (c *Calculator) Schedule() FeeSchedule { return c.schedule }

func (c *Calculator) Margin(t domain.PriceTier) domain.MarginResult {
	if c.memo == nil {
		return c.schedule.Margin(t)
	}

	key := fmt.Sprintf("%d:%d:%t", t.Price, t.Cost, t.GatewayFeeEnabled)
	if v, ok := c.memo.Get(key); ok {
		return v.(domain.MarginResult)
	}

	res := c.schedule.Margin(t)
	c.memo.SetDefault(key, res)
	slog.Debug("margin computed", "price", t.Price, "cost", t.Cost, "gateway", t.GatewayFeeEnabled)
	return res
}

func (c *Calculator) Dual(retail, wholesale domain.PriceTier) DualMargins {
	return DualMargins{
		Retail:    c.Margin(retail),
		Wholesale: c.Margin(wholesale),
	}
}

// Product computes both tiers of a saved product.
func (c *Calculator) Product(p domain.Product) DualMargins {
	return c.Dual(p.Tiers())
}
