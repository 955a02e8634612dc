// Package loyalty holds the point and team-reward arithmetic derived from a
// booking's price. Everything here is pure; the ledger lives in the usecase layer.
package loyalty

import (
	"fmt"
	"math"

	"cleaning-service/internal/data/entity"
)

// PointsPerCZK is the accrual rate for paid bookings.
const PointsPerCZK = 0.27

// ComputeAutoPoints returns round(price * 0.27); non-positive prices earn nothing.
func ComputeAutoPoints(price float64) int {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return int(math.Round(price * PointsPerCZK))
}

// EffectivePoints prefers the manual override when one is set.
func EffectivePoints(price float64, manualOverride *int) int {
	if manualOverride != nil {
		return *manualOverride
	}
	return ComputeAutoPoints(price)
}

// EffectiveTeamReward prefers the manual override, else sums the earnings records.
func EffectiveTeamReward(records []*entity.JobEarning, manualOverride *float64) float64 {
	if manualOverride != nil {
		return *manualOverride
	}
	var sum float64
	for _, r := range records {
		if r != nil {
			sum += r.Amount
		}
	}
	return sum
}

// EarnedDescription is the ledger line written on payment.
func EarnedDescription(price float64) string {
	return fmt.Sprintf("Points for cleaning (%.0f CZK)", price)
}
