package rag

// ConfidenceConfig carries the relevance-to-confidence weighting.
// The 0.7/0.3 split and 0.95 ceiling are tuning defaults, not
// invariants; they weight peak relevance over the mean so one strong
// hit is not penalized by weaker companions, while the ceiling keeps
// headroom for "never fully certain".
type ConfidenceConfig struct {
	PeakWeight float64
	MeanWeight float64
	Ceiling    float64
	Floor      float64 // returned when no relevances exist
}

// DefaultConfidenceConfig returns the stock weighting.
func DefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		PeakWeight: 0.7,
		MeanWeight: 0.3,
		Ceiling:    0.95,
		Floor:      0.1,
	}
}

// Score computes min(ceiling, peak*max + mean*avg) over the relevance
// scores used as context. An empty list scores the floor.
func (c ConfidenceConfig) Score(relevances []float64) float64 {
	if len(relevances) == 0 {
		return c.Floor
	}

	peak := relevances[0]
	sum := 0.0
	for _, r := range relevances {
		if r > peak {
			peak = r
		}
		sum += r
	}
	mean := sum / float64(len(relevances))

	score := c.PeakWeight*peak + c.MeanWeight*mean
	if score > c.Ceiling {
		score = c.Ceiling
	}
	if score < c.Floor {
		score = c.Floor
	}
	return score
}
