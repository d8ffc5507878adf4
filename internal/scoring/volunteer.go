package scoring

import (
	"strconv"
	"strings"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

const (
	pointsPerSkill      = 20
	maxSkillPoints      = 45
	generalSkillPoints  = 15
	seekingVolunteers   = 15
	mayNeedVolunteers   = 5
	ageGroupMatchPoints = 5
	anyAgeGroup         = "any"
)

// VolunteerScorer ranks needs for volunteers: skills, proximity, support type, age group.
type VolunteerScorer struct {
	calc   *geo.Calculator
	skills *SkillTable
}

func NewVolunteerScorer(calc *geo.Calculator, skills *SkillTable) *VolunteerScorer {
	return &VolunteerScorer{calc: calc, skills: skills}
}

func (s *VolunteerScorer) Score(need *needs.Need, profile *needs.Profile) Result {
	var res Result

	if len(profile.Skills) > 0 {
		matched := s.skills.Match(need.Category, profile.Skills)
		if len(matched) > 0 {
			res.add(Reason{
				Factor: FactorSkills,
				Points: min(maxSkillPoints, len(matched)*pointsPerSkill),
				Params: map[string]string{ParamSkills: strings.Join(matched, ", ")},
			})
		} else {
			res.add(Reason{Factor: FactorGeneralSkills, Points: generalSkillPoints})
		}
	}

	scoreProximity(&res, s.calc, need, profile)

	seeking := need.SupportType.AcceptsVolunteers()
	points := mayNeedVolunteers
	if seeking {
		points = seekingVolunteers
	}
	res.add(Reason{
		Factor: FactorSupportType,
		Points: points,
		Params: map[string]string{ParamSeeking: strconv.FormatBool(seeking)},
	})

	if matchesAgeGroup(profile.PreferredAgeGroup, need.AgeGroup) {
		res.add(Reason{Factor: FactorAgeGroup, Points: ageGroupMatchPoints})
	}

	res.clamp()
	return res
}

// matchesAgeGroup requires both sides to be set; "any" accepts every group.
func matchesAgeGroup(preferred, group string) bool {
	preferred, group = strings.TrimSpace(preferred), strings.TrimSpace(group)
	if preferred == "" || group == "" {
		return false
	}
	return strings.EqualFold(preferred, group) || strings.EqualFold(preferred, anyAgeGroup)
}
