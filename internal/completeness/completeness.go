// Package completeness tells a user which profile fields are missing for good matches.
package completeness

import (
	"strings"

	"github.com/karune-connect/matcher/internal/needs"
)

const (
	SuggestCity       = "add your city for location-based matching"
	SuggestLocation   = "enable location for accurate distance calculations"
	SuggestCategories = "select preferred categories to see relevant needs"
	SuggestSkills     = "add your skills for better opportunity matching"
	SuggestProfile    = "complete your profile to get better recommendations"
)

// IsComplete reports whether profile has every field role requires.
// A city is always required; sponsors also need categories and volunteers need skills.
func IsComplete(profile *needs.Profile, role needs.Role) bool {
	if profile == nil || !profile.HasCity() {
		return false
	}

	switch role {
	case needs.RoleSponsor:
		return hasAny(profile.PreferredCategories)
	case needs.RoleVolunteer:
		return hasAny(profile.Skills)
	default:
		return true
	}
}

// Suggestions lists what the user can add, in a fixed order: city, location, then the role field.
func Suggestions(profile *needs.Profile, role needs.Role) []string {
	if profile == nil {
		return []string{SuggestProfile}
	}

	var out []string
	if !profile.HasCity() {
		out = append(out, SuggestCity)
	}
	if !profile.HasCoordinates() {
		out = append(out, SuggestLocation)
	}

	switch {
	case role == needs.RoleSponsor && !hasAny(profile.PreferredCategories):
		out = append(out, SuggestCategories)
	case role == needs.RoleVolunteer && !hasAny(profile.Skills):
		out = append(out, SuggestSkills)
	}

	return out
}

func hasAny(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
