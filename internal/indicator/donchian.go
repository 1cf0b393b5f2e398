package indicator

import "github.com/deltrader-lab/deltrader/internal/types"

// Donchian computes the Donchian channel over the trailing period: the
// highest high, the lowest low, and their midpoint.
func Donchian(bars []types.Bar, period int) (upper, middle, lower []float64) {
	upper = nanSlice(len(bars))
	middle = nanSlice(len(bars))
	lower = nanSlice(len(bars))

	for i := period - 1; i < len(bars); i++ {
		highest := bars[i-period+1].High
		lowest := bars[i-period+1].Low

		for j := i - period + 2; j <= i; j++ {
			if bars[j].High > highest {
				highest = bars[j].High
			}

			if bars[j].Low < lowest {
				lowest = bars[j].Low
			}
		}

		upper[i] = highest
		lower[i] = lowest
		middle[i] = (highest + lowest) / 2.0
	}

	return upper, middle, lower
}
