package indicator

import (
	"math"

	"github.com/deltrader-lab/deltrader/internal/types"
)

// TrueRange computes the true range of a bar given the previous close:
// the largest of high-low, |high-prevClose| and |low-prevClose|.
func TrueRange(bar types.Bar, prevClose float64) float64 {
	highLow := bar.High - bar.Low
	highClose := math.Abs(bar.High - prevClose)
	lowClose := math.Abs(bar.Low - prevClose)

	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR computes the average true range over the given period using Wilder's
// smoothing. The first bar's true range is its high-low span since there is
// no previous close. Entries before index period-1 are NaN.
func ATR(bars []types.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if len(bars) < period {
		return out
	}

	tr := make([]float64, len(bars))
	tr[0] = bars[0].High - bars[0].Low

	for i := 1; i < len(bars); i++ {
		tr[i] = TrueRange(bars[i], bars[i-1].Close)
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += tr[i]
	}

	seed /= float64(period)
	out[period-1] = seed

	prev := seed
	for i := period; i < len(bars); i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}

	return out
}
