package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// SpectrumInfo contains magnitude-spectrum measurements of one audio
// block. It is diagnostic data for display and reports; pitch
// estimation itself is time-domain.
type SpectrumInfo struct {
	SampleRate int     `json:"sample_rate"`
	FFTSize    int     `json:"fft_size"`
	BinHz      float64 `json:"bin_hz"`

	Magnitudes []float64 `json:"magnitudes,omitempty"`

	PeakHz   float64 `json:"peak_hz"`
	Centroid float64 `json:"centroid_hz"`
}

// Spectrum computes a Hann-windowed magnitude spectrum of the block.
// The FFT size is the largest power of two not exceeding the block
// length, at least 256.
func Spectrum(block []float64, sampleRate int) (SpectrumInfo, error) {
	if sampleRate <= 0 {
		return SpectrumInfo{}, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	fftSize := floorPow2(len(block))
	if fftSize < 256 {
		return SpectrumInfo{}, fmt.Errorf("block too short for spectrum: %d samples", len(block))
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return SpectrumInfo{}, fmt.Errorf("fft plan: %w", err)
	}

	buf := make([]float64, fftSize)
	for i := 0; i < fftSize; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = block[i] * w
	}

	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	nBins := fftSize / 2
	info := SpectrumInfo{
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		BinHz:      float64(sampleRate) / float64(fftSize),
		Magnitudes: make([]float64, nBins),
	}

	peakBin := 1
	peakMag := 0.0
	var magSum, weightedSum float64
	for k := 1; k < nBins; k++ {
		m := cmplx.Abs(spec[k])
		info.Magnitudes[k] = m
		if m > peakMag {
			peakMag = m
			peakBin = k
		}
		magSum += m
		weightedSum += m * float64(k) * info.BinHz
	}

	info.PeakHz = float64(peakBin) * info.BinHz
	if magSum > 0 {
		info.Centroid = weightedSum / magSum
	}
	return info, nil
}

func floorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
