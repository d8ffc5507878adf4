package needs

import (
	"strings"

	"github.com/karune-connect/matcher/internal/geo"
)

type Role string

const (
	RoleSponsor   Role = "sponsor"
	RoleVolunteer Role = "volunteer"
	RoleShelter   Role = "shelter"
)

// ParseRole normalizes a role name. Unrecognized names are returned as-is
// so callers can decide on a default.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

func (r Role) Known() bool {
	switch r {
	case RoleSponsor, RoleVolunteer, RoleShelter:
		return true
	default:
		return false
	}
}

type DonationType string

const (
	DonationMonetary DonationType = "monetary"
	DonationDelivery DonationType = "delivery"
	DonationBoth     DonationType = "both"
)

// Profile describes a sponsor, volunteer or shelter for matching purposes.
// Missing sets are treated as empty.
type Profile struct {
	ID                  string           `json:"id,omitempty" mapstructure:"id"`
	Name                string           `json:"name,omitempty" mapstructure:"name"`
	Role                Role             `json:"role" mapstructure:"role"`
	City                string           `json:"city,omitempty" mapstructure:"city"`
	Coordinates         *geo.Coordinates `json:"coordinates,omitempty" mapstructure:"coordinates"`
	PreferredCategories []string         `json:"preferredCategories,omitempty" mapstructure:"preferredCategories"`
	Skills              []string         `json:"skills,omitempty" mapstructure:"skills"`
	DonationType        DonationType     `json:"donationType,omitempty" mapstructure:"donationType"`
	PreferredAgeGroup   string           `json:"preferredAgeGroup,omitempty" mapstructure:"preferredAgeGroup"`
}

// Location returns the profile as one side of a distance lookup.
func (p *Profile) Location() geo.LocationRef {
	return geo.LocationRef{Coordinates: p.Coordinates, City: p.City}
}

func (p *Profile) HasCity() bool {
	return strings.TrimSpace(p.City) != ""
}

func (p *Profile) HasCoordinates() bool {
	return p.Coordinates != nil && p.Coordinates.Valid()
}

func (p *Profile) AcceptsMonetary() bool {
	return p.DonationType == DonationMonetary || p.DonationType == DonationBoth
}

// PrefersCategory reports whether category is among the preferred categories, ignoring case.
func (p *Profile) PrefersCategory(category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return false
	}
	for _, c := range p.PreferredCategories {
		if strings.EqualFold(strings.TrimSpace(c), category) {
			return true
		}
	}
	return false
}

// Label is a short human identifier for logs and prompts.
func (p *Profile) Label() string {
	switch {
	case p.Name != "" && p.ID != "":
		return p.Name + " (" + p.ID + ")"
	case p.Name != "":
		return p.Name
	default:
		return p.ID
	}
}
