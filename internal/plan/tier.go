package plan

import "strings"

const (
	TierBasic   = "basic"
	TierPremium = "premium"
	TierElite   = "elite"
)

// EffectiveTier prefers the stored tier and falls back to the monthly price.
func EffectiveTier(p *Plan) string {
	if p == nil {
		return ""
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierBasic, TierPremium, TierElite:
		return tier
	}

	return tierFromPrice(MonthlyCents(p.PriceCents, p.Interval))
}

func tierFromPrice(monthlyCents int64) string {
	switch {
	case monthlyCents >= 8000:
		return TierElite
	case monthlyCents >= 4000:
		return TierPremium
	default:
		return TierBasic
	}
}

// MonthlyCents normalizes a recurring price to a per-month amount in cents.
// Unknown intervals are treated as monthly.
func MonthlyCents(priceCents int64, interval string) int64 {
	switch interval {
	case IntervalWeek:
		return priceCents * 52 / 12
	case IntervalYear:
		return priceCents / 12
	default:
		return priceCents
	}
}
