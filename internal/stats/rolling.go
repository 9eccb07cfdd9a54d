package stats

// RollingMean computes window-sized trailing averages. The first
// window-1 positions have no full window and are omitted; the result
// has len(values)-window+1 entries. A window larger than the input
// yields an empty slice.
func RollingMean(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return []float64{}
	}

	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// RollingStd computes window-sized trailing population standard
// deviations, aligned with RollingMean.
func RollingStd(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return []float64{}
	}

	out := make([]float64, 0, len(values)-window+1)
	for i := window - 1; i < len(values); i++ {
		_, std := MeanStd(values[i-window+1 : i+1])
		out = append(out, std)
	}
	return out
}
