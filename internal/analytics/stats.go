package analytics

import "math"

func product(values []float64) float64 {
	acc := 1.0
	for _, v := range values {
		acc *= v
	}

	return acc
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// sampleStdDev uses the N-1 denominator. It is 0 for fewer than two values.
func sampleStdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}

	acc := 0.0
	for _, v := range values {
		acc += (v - m) * (v - m)
	}

	return math.Sqrt(acc / float64(len(values)-1))
}

// skewness is the population skew of values around the given mean and standard deviation.
func skewness(values []float64, m, sd float64) float64 {
	if len(values) < 2 || sd == 0 {
		return 0
	}

	acc := 0.0
	for _, v := range values {
		z := (v - m) / sd
		acc += z * z * z
	}

	return acc / float64(len(values))
}
