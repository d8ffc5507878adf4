package needs

import (
	"slices"

	"github.com/karune-connect/matcher/internal/geo"
)

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

type SupportType string

const (
	SupportDonation  SupportType = "donation"
	SupportVolunteer SupportType = "volunteer"
	SupportBoth      SupportType = "both"
)

// AcceptsDonations reports whether the need takes donations.
func (s SupportType) AcceptsDonations() bool {
	return s == SupportDonation || s == SupportBoth
}

// AcceptsVolunteers reports whether the need takes volunteer help.
func (s SupportType) AcceptsVolunteers() bool {
	return s == SupportVolunteer || s == SupportBoth
}

// Need is a request for help posted on behalf of a shelter.
// It is read-only to the matching code.
type Need struct {
	ID          string           `json:"id" mapstructure:"id"`
	Title       string           `json:"title" mapstructure:"title"`
	Category    string           `json:"category" mapstructure:"category"`
	ShelterCity string           `json:"shelterCity" mapstructure:"shelterCity"`
	Coordinates *geo.Coordinates `json:"coordinates,omitempty" mapstructure:"coordinates"`
	Urgency     Urgency          `json:"urgency" mapstructure:"urgency"`
	SupportType SupportType      `json:"supportType" mapstructure:"supportType"`
	AgeGroup    string           `json:"ageGroup,omitempty" mapstructure:"ageGroup"`
}

// Location returns the need as one side of a distance lookup.
func (n *Need) Location() geo.LocationRef {
	return geo.LocationRef{Coordinates: n.Coordinates, City: n.ShelterCity}
}

// Needs is an ordered collection of needs. Order is significant for ranking ties.
type Needs struct {
	Items []*Need `json:"items"`
}

func (n *Needs) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Items)
}

func (n *Needs) FindByID(id string) *Need {
	for _, need := range n.Items {
		if need.ID == id {
			return need
		}
	}
	return nil
}

// IDs returns the identifiers in collection order.
func (n *Needs) IDs() []string {
	ids := make([]string, 0, n.Len())
	for _, need := range n.Items {
		ids = append(ids, need.ID)
	}
	return ids
}

// Exclude removes needs whose ID is in ids, keeping the order of the rest.
// It returns the removed IDs.
func (n *Needs) Exclude(ids []string) []string {
	if len(ids) == 0 || n.Len() == 0 {
		return nil
	}

	var excluded []string
	n.Items = slices.DeleteFunc(n.Items, func(need *Need) bool {
		if slices.Contains(ids, need.ID) {
			excluded = append(excluded, need.ID)
			return true
		}
		return false
	})

	return excluded
}

// Clone returns a shallow copy of the collection. Need values are shared.
func (n *Needs) Clone() *Needs {
	if n == nil {
		return &Needs{}
	}
	return &Needs{Items: slices.Clone(n.Items)}
}
