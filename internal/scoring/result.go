package scoring

import (
	"math"

	"github.com/karune-connect/matcher/internal/geo"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Result is the outcome of scoring one need against one profile.
type Result struct {
	Score   int      `json:"score"`
	Reasons []Reason `json:"reasons"`
	// DistanceKm is nil when no location could be resolved for either side.
	DistanceKm *float64      `json:"distanceKm"`
	Precision  geo.Precision `json:"-"`
}

func (r *Result) add(reason Reason) {
	r.Score += reason.Points
	r.Reasons = append(r.Reasons, reason)
}

func (r *Result) clamp() {
	r.Score = max(MinScore, min(MaxScore, r.Score))
}

// Percentage converts a raw score into a 0-100 match percentage.
func Percentage(score float64) int {
	return max(MinScore, min(int(math.Round(score)), MaxScore))
}
