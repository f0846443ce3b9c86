// internal/report/commission.go
package report

import (
	"fmt"

	"bayup-finance/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	DefaultCommissionRate = decimal.RequireFromString("2.5")

	DefaultCommissionGoal domain.MoneyAmount = 10_000_000
)

// EnsureRules returns one rule per seller, reusing existing rules by seller id.
// existing is not modified.
func EnsureRules(sellers []domain.Seller, existing []domain.CommissionRule) []domain.CommissionRule {
	byID := make(map[string]domain.CommissionRule, len(existing))
	for _, r := range existing {
		byID[r.SellerID] = r
	}

	rules := make([]domain.CommissionRule, 0, len(sellers))
	for _, s := range sellers {
		if r, ok := byID[s.ID]; ok {
			rules = append(rules, r)
			continue
		}
		rules = append(rules, domain.CommissionRule{
			SellerID:    s.ID,
			SellerName:  s.Name,
			RatePercent: DefaultCommissionRate,
			Goal:        DefaultCommissionGoal,
			Active:      true,
		})
	}
	return rules
}

// Earned is totalSold × rate / 100 rounded half-up to whole units,
// since the result is stored as a MoneyAmount.
func Earned(totalSold domain.MoneyAmount, ratePercent decimal.Decimal) domain.MoneyAmount {
	return decimal.NewFromInt(totalSold).Mul(ratePercent).Div(hundred).Round(0).IntPart()
}

var hundred = decimal.NewFromInt(100)

// CommissionRecord builds a pending commission for one seller's month.
// The id is stable per seller and month so regenerating a month does not duplicate it.
func CommissionRecord(rule domain.CommissionRule, totalSold domain.MoneyAmount, date string) domain.FinancialRecord {
	month := date
	if len(month) > 7 {
		month = month[:7]
	}
	return domain.FinancialRecord{
		ID:           "c_" + rule.SellerID + "_" + month,
		Kind:         domain.KindCommission,
		Description:  fmt.Sprintf("Comisión %s (%s%%)", rule.SellerName, rule.RatePercent.String()),
		Amount:       Earned(totalSold, rule.RatePercent),
		Category:     domain.CategoryCommission,
		Status:       domain.StatusPending,
		Date:         date,
		RelatedParty: rule.SellerName,
		Commission: &domain.CommissionDetails{
			SellerID:    rule.SellerID,
			TotalSold:   totalSold,
			RatePercent: rule.RatePercent,
		},
	}
}

// CommissionRecords builds records for active rules only.
func CommissionRecords(rules []domain.CommissionRule, sellers []domain.Seller, date string) []domain.FinancialRecord {
	sold := make(map[string]domain.MoneyAmount, len(sellers))
	for _, s := range sellers {
		sold[s.ID] = s.SalesMonth
	}
	var out []domain.FinancialRecord
	for _, r := range rules {
		if !r.Active {
			continue
		}
		out = append(out, CommissionRecord(r, sold[r.SellerID], date))
	}
	return out
}
