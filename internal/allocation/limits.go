package allocation

import "github.com/andresuchdata/autopull/internal/domain"

// SanitizeBound floors a configured limit to a non-negative integer.
// Bad configuration is corrected, never rejected.
func SanitizeBound(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// ResolveLimits returns the effective (min, max) pull bound for a SKU:
// the per-SKU override when present, otherwise the global default.
func ResolveLimits(policy *domain.LimitPolicy, sku string) (min, max int) {
	if policy == nil {
		return 0, 0
	}
	if bounds, ok := policy.SKUs[sku]; ok {
		return SanitizeBound(bounds.Min), SanitizeBound(bounds.Max)
	}
	return SanitizeBound(policy.DefaultMin), SanitizeBound(policy.DefaultMax)
}

// Clamp maps a balance onto a pull quantity. A balance below the minimum
// threshold is not replenished at all; above it the pull is capped at max.
func Clamp(balance, min, max int) int {
	if balance < min {
		return 0
	}
	if balance > max {
		return max
	}
	return balance
}
