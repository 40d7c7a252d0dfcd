package ratings

import "math"

const (
	// ObscurityThreshold is the rating count under which a film's raw
	// average is not trusted.
	ObscurityThreshold = 30
	// NeutralHighScore is the value given to every synthesized rating.
	NeutralHighScore = 5.0
)

// TrueAverage is the unadjusted mean rating, ok is false when the film has
// no ratings.
func (h Histogram) TrueAverage() (avg float64, ok bool) {
	total := h.Total()
	if total == 0 {
		return 0, false
	}
	return float64(h.WeightedSum()) / float64(total), true
}

func (h Histogram) IsObscure() bool {
	return h.Total() < ObscurityThreshold
}

// AdjustedAverage pads obscure films with (30 - total) / 2 ratings at
// NeutralHighScore so a single extreme rating does not dominate the score.
// Films at or above the threshold get their true average back unrounded.
// The padded average is rounded half to even at the given precision.
func (h Histogram) AdjustedAverage(precision int) (avg float64, ok bool) {
	total := h.Total()
	if total == 0 {
		return 0, false
	}
	if !h.IsObscure() {
		return h.TrueAverage()
	}

	fake := float64(ObscurityThreshold-total) / 2
	score := float64(h.WeightedSum()) + fake*NeutralHighScore
	adjusted := score / (float64(total) + fake)
	return roundHalfEven(adjusted, precision), true
}

func (h Histogram) AdjustedAverageDefault() (float64, bool) {
	return h.AdjustedAverage(0)
}

func roundHalfEven(x float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.RoundToEven(x*scale) / scale
}
