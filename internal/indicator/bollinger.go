package indicator

import "math"

// Bollinger computes Bollinger Bands: a simple moving average plus/minus k
// standard deviations over the trailing period.
func Bollinger(values []float64, period int, k float64) (upper, middle, lower []float64) {
	upper = nanSlice(len(values))
	middle = SMA(values, period)
	lower = nanSlice(len(values))

	for i := period - 1; i < len(values); i++ {
		mean := middle[i]

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			diff := values[j] - mean
			variance += diff * diff
		}

		stddev := math.Sqrt(variance / float64(period))
		upper[i] = mean + k*stddev
		lower[i] = mean - k*stddev
	}

	return upper, middle, lower
}
