package indicator

// RSI computes the relative strength index of values using Wilder's
// smoothing. Entries before index period are NaN.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64

	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]

		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}

		return 100.0
	}

	rs := avgGain / avgLoss

	return 100.0 - 100.0/(1.0+rs)
}
