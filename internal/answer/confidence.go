package answer

// Confidence is the coarse grounding signal attached to every answer,
// derived from the top candidate's similarity score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Default confidence cut points. These are contract values: the boundary
// behavior (score exactly at a threshold maps to the higher band) is
// asserted by tests, the exact numbers are configurable.
const (
	DefaultHighThreshold   float32 = 0.75
	DefaultMediumThreshold float32 = 0.50
)

// Thresholds holds the configured confidence cut points.
type Thresholds struct {
	High   float32
	Medium float32
}

// DefaultThresholds returns the default cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{High: DefaultHighThreshold, Medium: DefaultMediumThreshold}
}

// grade maps a top candidate score to its confidence band. Scores exactly
// at a threshold land in the higher band.
func (t Thresholds) grade(topScore float32) Confidence {
	switch {
	case topScore >= t.High:
		return ConfidenceHigh
	case topScore >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
