package scoring

import (
	"fmt"
	"strings"
)

// Factor tags a single scoring contribution. Tags and params are stable;
// wording lives in Format so presentation can replace it.
type Factor string

const (
	FactorCategory      Factor = "category"
	FactorCategoryOpen  Factor = "category_open"
	FactorProximity     Factor = "proximity"
	FactorSameCity      Factor = "same_city"
	FactorLocation      Factor = "location"
	FactorUrgency       Factor = "urgency"
	FactorDonationType  Factor = "donation_type"
	FactorSkills        Factor = "skills"
	FactorGeneralSkills Factor = "general_skills"
	FactorSupportType   Factor = "support_type"
	FactorAgeGroup      Factor = "age_group"
)

// Param keys used by reasons.
const (
	ParamCategory    = "category"
	ParamCity        = "city"
	ParamDistanceKm  = "distance_km"
	ParamLabel       = "label"
	ParamApproximate = "approximate"
	ParamUrgency     = "urgency"
	ParamSkills      = "skills"
	ParamSeeking     = "seeking"
)

// Reason explains one factor that contributed to a score.
type Reason struct {
	Factor Factor            `json:"factor"`
	Points int               `json:"points"`
	Params map[string]string `json:"params,omitempty"`
}

func (r Reason) String() string {
	return Format(r)
}

// Format renders the default English wording of a reason.
// Reasons that carry points but no wording render as "".
func Format(r Reason) string {
	p := r.Params
	switch r.Factor {
	case FactorCategory:
		return "matches preferred category: " + p[ParamCategory]
	case FactorCategoryOpen:
		return ""
	case FactorProximity:
		distance := p[ParamDistanceKm] + "km"
		if p[ParamApproximate] == "true" {
			distance = "~" + distance
		}
		text := fmt.Sprintf("%s - %s away", p[ParamLabel], distance)
		if p[ParamLabel] == labelVeryClose && p[ParamCity] != "" {
			text += " in " + p[ParamCity]
		}
		return text
	case FactorSameCity:
		return "same city: " + p[ParamCity]
	case FactorLocation:
		return "location: " + p[ParamCity]
	case FactorUrgency:
		if p[ParamUrgency] == "high" {
			return "high urgency - immediate help needed"
		}
		return p[ParamUrgency] + " urgency"
	case FactorDonationType:
		return "accepts your donation type"
	case FactorSkills:
		return "your skills match: " + p[ParamSkills]
	case FactorGeneralSkills:
		return "your general skills can help"
	case FactorSupportType:
		if p[ParamSeeking] == "true" {
			return "actively seeking volunteers"
		}
		return "may need volunteer support"
	case FactorAgeGroup:
		return "matches your age group preference"
	default:
		return strings.ReplaceAll(string(r.Factor), "_", " ")
	}
}

// Texts renders the reasons that have wording, in order.
func Texts(reasons []Reason) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if text := Format(r); text != "" {
			out = append(out, text)
		}
	}
	return out
}
