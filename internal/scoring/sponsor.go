package scoring

import (
	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

const (
	categoryMatchPoints = 40
	categoryOpenPoints  = 10
	donationTypePoints  = 5
)

var urgencyPoints = map[needs.Urgency]int{
	needs.UrgencyHigh:   20,
	needs.UrgencyMedium: 10,
	needs.UrgencyLow:    5,
}

// SponsorScorer ranks needs for sponsors: category, proximity, urgency, donation type.
type SponsorScorer struct {
	calc *geo.Calculator
}

func NewSponsorScorer(calc *geo.Calculator) *SponsorScorer {
	return &SponsorScorer{calc: calc}
}

func (s *SponsorScorer) Score(need *needs.Need, profile *needs.Profile) Result {
	var res Result

	switch {
	case profile.PrefersCategory(need.Category):
		res.add(Reason{
			Factor: FactorCategory,
			Points: categoryMatchPoints,
			Params: map[string]string{ParamCategory: need.Category},
		})
	case len(profile.PreferredCategories) == 0:
		res.add(Reason{Factor: FactorCategoryOpen, Points: categoryOpenPoints})
	}

	scoreProximity(&res, s.calc, need, profile)

	if points, ok := urgencyPoints[need.Urgency]; ok {
		res.add(Reason{
			Factor: FactorUrgency,
			Points: points,
			Params: map[string]string{ParamUrgency: string(need.Urgency)},
		})
	}

	if need.SupportType.AcceptsDonations() && profile.AcceptsMonetary() {
		res.add(Reason{Factor: FactorDonationType, Points: donationTypePoints})
	}

	res.clamp()
	return res
}
