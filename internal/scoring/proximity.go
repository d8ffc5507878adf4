package scoring

import (
	"strconv"
	"strings"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

const (
	labelVeryClose  = "very close"
	labelNearby     = "nearby"
	labelSameRegion = "same region"
	labelRegional   = "regional"
	labelFar        = "far"

	sameCityPoints      = 30
	otherLocationPoints = 5
	farPoints           = 5
)

type proximityTier struct {
	below  float64
	points int
	label  string
}

// Tiers are checked in order; the first upper bound above the distance wins.
var proximityTiers = []proximityTier{
	{below: 20, points: 35, label: labelVeryClose},
	{below: 50, points: 30, label: labelNearby},
	{below: 100, points: 20, label: labelSameRegion},
	{below: 300, points: 10, label: labelRegional},
}

// ProximityPoints returns the points and label for a resolved distance.
func ProximityPoints(km float64) (int, string) {
	for _, tier := range proximityTiers {
		if km < tier.below {
			return tier.points, tier.label
		}
	}
	return farPoints, labelFar
}

// scoreProximity adds the proximity contribution and records the resolved distance.
//
// Exact distances always use the tiers. Without exact coordinates, matching
// city names win over a centroid estimate, which would otherwise report 0 km.
func scoreProximity(res *Result, calc *geo.Calculator, need *needs.Need, profile *needs.Profile) {
	km, precision := calc.Resolve(profile.Location(), need.Location())
	city := strings.TrimSpace(need.ShelterCity)
	res.Precision = precision
	if precision != geo.PrecisionUnknown {
		res.DistanceKm = &km
	}

	switch {
	case precision == geo.PrecisionExact:
		res.add(proximityReason(km, false, city))
	case geo.SameCity(profile.City, need.ShelterCity):
		res.add(Reason{
			Factor: FactorSameCity,
			Points: sameCityPoints,
			Params: map[string]string{ParamCity: city},
		})
	case precision == geo.PrecisionApproximate:
		res.add(proximityReason(km, true, city))
	case profile.HasCity() && city != "":
		res.add(Reason{
			Factor: FactorLocation,
			Points: otherLocationPoints,
			Params: map[string]string{ParamCity: city},
		})
	}
}

func proximityReason(km float64, approximate bool, city string) Reason {
	points, label := ProximityPoints(km)
	params := map[string]string{
		ParamDistanceKm: strconv.FormatFloat(km, 'f', -1, 64),
		ParamLabel:      label,
	}
	if approximate {
		params[ParamApproximate] = "true"
	}
	if city != "" {
		params[ParamCity] = city
	}
	return Reason{Factor: FactorProximity, Points: points, Params: params}
}
