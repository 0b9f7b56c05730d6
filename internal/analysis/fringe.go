package analysis

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/wavesim/internal/dynamo"
)

var ErrFlatProfile = errors.New("analysis: profile has no fringes")

// Profile returns |a|² for every column of row y.
func Profile(f dynamo.Field, y int) []float64 {
	w, _ := f.Dims()
	out := make([]float64, w)
	for x := range out {
		m := f.Magnitude(x, y)
		out[x] = m * m
	}
	return out
}

// FringeSpacing returns the dominant period of the profile in cells, from
// the strongest non-DC bin of its spectrum with parabolic peak refinement.
func FringeSpacing(profile []float64) (float64, error) {
	n := len(profile)
	if n < 4 {
		return 0, ErrFlatProfile
	}
	ps := PowerSpectrum(Detrend(profile))
	if len(ps) < 2 {
		return 0, ErrFlatProfile
	}
	k := 1 + floats.MaxIdx(ps[1:])
	if ps[k] <= 1e-12*floats.Max(profile) || ps[k] == 0 {
		return 0, ErrFlatProfile
	}

	peak := float64(k)
	if k > 1 && k < len(ps)-1 {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if d := a - 2*b + c; d != 0 {
			peak += 0.5 * (a - c) / d
		}
	}
	return float64(n) / peak, nil
}

// Visibility returns (max-min)/(max+min), or 0 for an all-zero profile.
func Visibility(profile []float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	hi, lo := floats.Max(profile), floats.Min(profile)
	if hi+lo == 0 {
		return 0
	}
	return (hi - lo) / (hi + lo)
}

// Peaks counts strict local maxima above frac of the global maximum.
func Peaks(profile []float64, frac float64) int {
	if len(profile) < 3 {
		return 0
	}
	floor := frac * floats.Max(profile)
	count := 0
	for i := 1; i < len(profile)-1; i++ {
		v := profile[i]
		if v > floor && v > profile[i-1] && v >= profile[i+1] {
			count++
		}
	}
	return count
}

// Crop returns the central part of the profile, dropping margin cells from
// each side. Absorbing borders otherwise bias the extrema.
func Crop(profile []float64, margin int) []float64 {
	if margin <= 0 || 2*margin >= len(profile) {
		return profile
	}
	return profile[margin : len(profile)-margin]
}

// ExpectedSpacing is the small-angle fringe period λ·D/d.
func ExpectedSpacing(wavelength, distance, separation float64) float64 {
	if separation == 0 {
		return 0
	}
	return wavelength * distance / separation
}

type Summary struct {
	Spacing    float64 `json:"spacing"`
	Visibility float64 `json:"visibility"`
	Peaks      int     `json:"peaks"`
	Mean       float64 `json:"mean"`
	Max        float64 `json:"max"`
}

// Analyze computes every measurement at once. A flat profile yields a zero
// spacing rather than an error.
func Analyze(profile []float64) Summary {
	s := Summary{
		Visibility: Visibility(profile),
		Peaks:      Peaks(profile, 0.1),
	}
	if len(profile) > 0 {
		s.Mean = floats.Sum(profile) / float64(len(profile))
		s.Max = floats.Max(profile)
	}
	if sp, err := FringeSpacing(profile); err == nil {
		s.Spacing = sp
	}
	return s
}
