// Package pace estimates the current spend rate from cumulative-cost
// samples. The estimator is a pure function of its inputs so the decay
// semantics can be property-tested without any I/O.
package pace

import (
	"math"
	"time"

	"github.com/paceline/paceline/internal/domain"
)

// Estimate returns the decay-weighted spend rate in currency per hour.
//
// Consecutive cumulative-cost samples are differenced into interval rates;
// each interval is weighted by 2^(-age/halfLife), with age measured from the
// interval's end to now. Fewer than two samples yields 0. A non-increasing
// cost across an interval contributes a rate of 0, never a negative one.
func Estimate(samples []domain.UsageSnapshot, halfLife time.Duration, now time.Time) float64 {
	if len(samples) < 2 || halfLife <= 0 {
		return 0
	}
	var weightedSum, weightTotal float64
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		dtMS := cur.TimestampMS - prev.TimestampMS
		if dtMS <= 0 {
			continue
		}
		rate := 0.0
		if delta := cur.Cost - prev.Cost; delta > 0 {
			rate = delta / (float64(dtMS) / float64(time.Hour.Milliseconds()))
		}
		age := now.Sub(time.UnixMilli(cur.TimestampMS))
		if age < 0 {
			age = 0
		}
		w := math.Exp2(-age.Minutes() / halfLife.Minutes())
		weightedSum += rate * w
		weightTotal += w
	}
	if weightTotal == 0 {
		return 0
	}
	return weightedSum / weightTotal
}
