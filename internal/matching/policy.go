package matching

import (
	"errors"
	"fmt"
	"math"
)

// Weights is the linear combination applied to field similarities.
// Values must be non-negative and sum to 1.
type Weights struct {
	Identifier  float64 `json:"identifier" toml:"identifier"`
	Title       float64 `json:"title" toml:"title"`
	Artist      float64 `json:"artist" toml:"artist"`
	Album       float64 `json:"album" toml:"album"`
	Duration    float64 `json:"duration" toml:"duration"`
	ReleaseDate float64 `json:"release_date" toml:"release_date"`
}

// DefaultWeights returns the weights used when the search backend does not
// supply recording identifiers.
func DefaultWeights() Weights {
	return Weights{
		Identifier:  0,
		Title:       0.35,
		Artist:      0.30,
		Album:       0.20,
		Duration:    0.10,
		ReleaseDate: 0.05,
	}
}

const weightSumTolerance = 1e-6

// ErrInvalidWeights is returned by Validate for unusable weight tables.
var ErrInvalidWeights = errors.New("invalid weights")

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Identifier + w.Title + w.Artist + w.Album + w.Duration + w.ReleaseDate
}

// Validate reports whether the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"identifier", w.Identifier},
		{"title", w.Title},
		{"artist", w.Artist},
		{"album", w.Album},
		{"duration", w.Duration},
		{"release_date", w.ReleaseDate},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, f.name, f.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %.6f", ErrInvalidWeights, sum)
	}
	return nil
}

// WithIdentifier returns a copy with the identifier weight set to v and the
// remaining weights rescaled so the table still sums to 1. Use it when the
// search backend is known to return recording identifiers.
func (w Weights) WithIdentifier(v float64) Weights {
	v = max(0, min(1, v))
	rest := w.Title + w.Artist + w.Album + w.Duration + w.ReleaseDate
	if rest <= 0 {
		return Weights{Identifier: 1}
	}
	scale := (1 - v) / rest
	return Weights{
		Identifier:  v,
		Title:       w.Title * scale,
		Artist:      w.Artist * scale,
		Album:       w.Album * scale,
		Duration:    w.Duration * scale,
		ReleaseDate: w.ReleaseDate * scale,
	}
}

func (w Weights) normalized() Weights {
	if w.Validate() != nil {
		return DefaultWeights()
	}
	return w
}

func (w Weights) combine(f FieldScore) float64 {
	total := f.Identifier*w.Identifier +
		f.Title*w.Title +
		f.Artist*w.Artist +
		f.Album*w.Album +
		f.Duration*w.Duration +
		f.ReleaseDate*w.ReleaseDate
	return clamp01(total)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
