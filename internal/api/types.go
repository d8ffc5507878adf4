package api

import (
	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
	"github.com/karune-connect/matcher/internal/ranking"
	"github.com/karune-connect/matcher/internal/scoring"
)

type recommendationsRequest struct {
	Role          needs.Role     `json:"role"`
	Profile       *needs.Profile `json:"profile"`
	ProfileID     string         `json:"profile_id"`
	Needs         []*needs.Need  `json:"needs"`
	MaxDistanceKm float64        `json:"max_distance_km"`
	Limit         int            `json:"limit"`
}

type completenessRequest struct {
	Role    needs.Role     `json:"role"`
	Profile *needs.Profile `json:"profile"`
}

type completenessResponse struct {
	Complete    bool     `json:"complete"`
	Suggestions []string `json:"suggestions"`
}

type nearbyRequest struct {
	Profile *needs.Profile `json:"profile"`
	Needs   []*needs.Need  `json:"needs"`
	MaxKm   float64        `json:"max_km"`
}

type nearbyResponse struct {
	Count int           `json:"count"`
	Needs []*needs.Need `json:"needs"`
}

type reasonView struct {
	Factor scoring.Factor    `json:"factor"`
	Points int               `json:"points"`
	Params map[string]string `json:"params,omitempty"`
	Text   string            `json:"text,omitempty"`
}

type recommendationView struct {
	Need        *needs.Need  `json:"need"`
	Score       *int         `json:"score"`
	Percentage  *int         `json:"percentage"`
	DistanceKm  *float64     `json:"distanceKm"`
	Approximate bool         `json:"approximate,omitempty"`
	Reasons     []reasonView `json:"reasons"`
}

type recommendationsResponse struct {
	Role            needs.Role           `json:"role"`
	Ranked          bool                 `json:"ranked"`
	Count           int                  `json:"count"`
	Recommendations []recommendationView `json:"recommendations"`
}

func toRecommendationViews(recs *ranking.Recommendations) []recommendationView {
	views := make([]recommendationView, 0, recs.Len())
	for _, rec := range recs.Items {
		view := recommendationView{Need: rec.Need, Reasons: []reasonView{}}
		if res := rec.Result; res != nil {
			score := res.Score
			pct := scoring.Percentage(float64(res.Score))
			view.Score = &score
			view.Percentage = &pct
			view.DistanceKm = res.DistanceKm
			view.Approximate = res.Precision == geo.PrecisionApproximate
			for _, r := range res.Reasons {
				view.Reasons = append(view.Reasons, reasonView{
					Factor: r.Factor,
					Points: r.Points,
					Params: r.Params,
					Text:   scoring.Format(r),
				})
			}
		}
		views = append(views, view)
	}
	return views
}
