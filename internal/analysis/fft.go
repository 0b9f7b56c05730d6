package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// FFT returns the discrete Fourier transform of a real series of any length.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

// PowerSpectrum returns |X_k| for k in [0, n/2).
func PowerSpectrum(data []float64) []float64 {
	freq := FFT(data)
	ps := make([]float64, len(freq)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(freq[i])
	}

	return ps
}

// Detrend returns data with its mean removed.
func Detrend(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	mean := floats.Sum(data) / float64(len(data))
	copy(out, data)
	floats.AddConst(-mean, out)
	return out
}
