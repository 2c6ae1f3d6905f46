package tuner

import "math"

// EstimatePitch returns the estimated fundamental frequency of a block
// in Hz using the YIN difference-function method, or false when no
// periodicity drops below threshold. The block is not modified and no
// state survives the call.
func EstimatePitch(block []float32, sampleRate int, threshold float64) (float64, bool) {
	tauMax := len(block) / 2
	if tauMax < 2 || sampleRate <= 0 {
		return 0, false
	}

	d := difference(block, tauMax)
	normalize(d)

	tau := absoluteThreshold(d, threshold)
	if tau < 0 {
		return 0, false
	}

	betterTau := parabolicInterpolation(d, tau)
	if betterTau <= 0 {
		return 0, false
	}

	freq := float64(sampleRate) / betterTau
	if !isFinite(freq) || freq <= 0 {
		return 0, false
	}
	return freq, true
}

// difference computes the squared difference of the block against a
// shifted copy of itself for each candidate lag in [0, tauMax).
func difference(block []float32, tauMax int) []float64 {
	d := make([]float64, tauMax)
	for tau := 1; tau < tauMax; tau++ {
		var sum float64
		for i := 0; i < tauMax; i++ {
			delta := float64(block[i]) - float64(block[i+tau])
			sum += delta * delta
		}
		d[tau] = sum
	}
	return d
}

// normalize rewrites d in place as the cumulative mean normalized
// difference. Lag 0 is pinned to 1 and is never a valid candidate.
func normalize(d []float64) {
	d[0] = 1
	runningSum := 0.0
	for tau := 1; tau < len(d); tau++ {
		runningSum += d[tau]
		if runningSum <= 0 {
			// Flat (e.g. constant) input: keep the sentinel value so no
			// candidate is selected.
			d[tau] = 1
			continue
		}
		d[tau] *= float64(tau) / runningSum
		if !isFinite(d[tau]) {
			d[tau] = 1
		}
	}
}

// absoluteThreshold returns the first lag whose normalized difference
// drops below threshold, advanced to the bottom of its local dip, or -1
// when no lag qualifies.
func absoluteThreshold(d []float64, threshold float64) int {
	for tau := 2; tau < len(d); tau++ {
		if d[tau] >= threshold {
			continue
		}
		for tau+1 < len(d) && d[tau+1] < d[tau] {
			tau++
		}
		return tau
	}
	return -1
}

// parabolicInterpolation refines an integer lag to a fractional one by
// fitting a parabola through the three surrounding normalized
// difference values, clamped at the buffer bounds.
func parabolicInterpolation(d []float64, tau int) float64 {
	x0 := tau - 1
	if x0 < 0 {
		x0 = tau
	}
	x2 := tau + 1
	if x2 >= len(d) {
		x2 = tau
	}

	if x0 == tau {
		if d[tau] <= d[x2] {
			return float64(tau)
		}
		return float64(x2)
	}
	if x2 == tau {
		if d[tau] <= d[x0] {
			return float64(tau)
		}
		return float64(x0)
	}

	s0 := d[x0]
	s1 := d[tau]
	s2 := d[x2]
	den := 2 * (2*s1 - s2 - s0)
	if den == 0 || !isFinite(den) {
		return float64(tau)
	}
	better := float64(tau) + (s2-s0)/den
	if !isFinite(better) {
		return float64(tau)
	}
	return better
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
