package combat

import (
	"math"

	"github.com/nathoo/drgrpg/engine/rng"
)

// spread draws uniformly from [value-pct%, value+pct%]. Bounds are floored
// and negative bounds clamp to 0 before the draw.
func spread(value, pct int, r *rng.RNG) int {
	delta := float64(value) * float64(pct) / 100
	lo := math.Floor(float64(value) - delta)
	hi := math.Floor(float64(value) + delta)
	lo = math.Max(lo, 0)
	hi = math.Max(hi, 0)
	return r.Between(int(lo), int(hi))
}

// mitigate subtracts the defense from power: all of it nine times in ten,
// a quarter of it (rounded) on a critical. Damage never goes below 0.
func mitigate(power, defense int, r *rng.RNG) int {
	if r.Roll(10) > 1 {
		power -= defense
	} else {
		power -= int(math.Round(float64(defense) / 4))
	}
	return max(power, 0)
}
