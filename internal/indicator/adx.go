package indicator

import "github.com/deltrader-lab/deltrader/internal/types"

// ADX computes the average directional index over the given period using
// Wilder's smoothing. A first DX value needs period+1 bars and the ADX
// itself is an average of period DX values, so entries before index
// 2*period-1 are NaN.
func ADX(bars []types.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if len(bars) < 2*period {
		return out
	}

	plusDM := make([]float64, len(bars))
	minusDM := make([]float64, len(bars))
	tr := make([]float64, len(bars))

	for i := 1; i < len(bars); i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}

		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}

		tr[i] = TrueRange(bars[i], bars[i-1].Close)
	}

	// Seed the smoothed sums over the first period of movement.
	var smoothPlus, smoothMinus, smoothTR float64
	for i := 1; i <= period; i++ {
		smoothPlus += plusDM[i]
		smoothMinus += minusDM[i]
		smoothTR += tr[i]
	}

	dx := nanSlice(len(bars))
	dx[period] = dxValue(smoothPlus, smoothMinus, smoothTR)

	for i := period + 1; i < len(bars); i++ {
		smoothPlus = smoothPlus - smoothPlus/float64(period) + plusDM[i]
		smoothMinus = smoothMinus - smoothMinus/float64(period) + minusDM[i]
		smoothTR = smoothTR - smoothTR/float64(period) + tr[i]
		dx[i] = dxValue(smoothPlus, smoothMinus, smoothTR)
	}

	// ADX seeds with the simple average of the first period DX values.
	var seed float64
	for i := period; i < 2*period; i++ {
		seed += dx[i]
	}

	seed /= float64(period)
	out[2*period-1] = seed

	prev := seed
	for i := 2 * period; i < len(bars); i++ {
		prev = (prev*float64(period-1) + dx[i]) / float64(period)
		out[i] = prev
	}

	return out
}

func dxValue(plusDM, minusDM, tr float64) float64 {
	if tr == 0 {
		return 0
	}

	plusDI := 100.0 * plusDM / tr
	minusDI := 100.0 * minusDM / tr

	sum := plusDI + minusDI
	if sum == 0 {
		return 0
	}

	diff := plusDI - minusDI
	if diff < 0 {
		diff = -diff
	}

	return 100.0 * diff / sum
}
