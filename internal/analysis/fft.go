package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// ErrTooFewSamples is returned when a series is too short to analyse.
var ErrTooFewSamples = errors.New("analysis: need at least 4 samples")

// PowerSpectrum returns |X_k|² for k in [0, n/2] of the mean-removed,
// Hann-windowed series.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	ps := make([]float64, n/2+1)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt seconds, refined by parabolic
// interpolation between neighbouring bins.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, ErrTooFewSamples
	}
	if !(dt > 0) {
		return 0, errors.New("analysis: sample interval must be positive")
	}

	ps := PowerSpectrum(samples)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	offset := 0.0
	if peak > 0 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}

	return (float64(peak) + offset) / (float64(len(samples)) * dt), nil
}

// NaturalFrequency is the undamped frequency in Hz of mass m on a spring of
// stiffness k.
func NaturalFrequency(k, m float64) float64 {
	return math.Sqrt(k/m) / (2 * math.Pi)
}

// DampedFrequency applies a damping ratio to NaturalFrequency. Overdamped
// systems do not oscillate and return 0.
func DampedFrequency(k, m, ratio float64) float64 {
	if ratio >= 1 {
		return 0
	}
	return NaturalFrequency(k, m) * math.Sqrt(1-ratio*ratio)
}
