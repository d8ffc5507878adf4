package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

// ByRadius keeps the needs strictly closer than maxKm to profile, in input order.
// A profile without coordinates cannot be evaluated and gets items back unchanged.
// Needs whose distance cannot be resolved are dropped.
func ByRadius(calc *geo.Calculator, items []*needs.Need, profile *needs.Profile, maxKm float64) []*needs.Need {
	if profile == nil || !profile.HasCoordinates() {
		return items
	}

	kept := make([]*needs.Need, 0, len(items))
	for _, need := range items {
		if need == nil {
			continue
		}
		km, ok := calc.Distance(profile.Location(), need.Location())
		if ok && km < maxKm {
			kept = append(kept, need)
		}
	}
	return kept
}

type radiusFilter struct {
	disabled bool
	reason   string
	maxKm    float64
}

// NewRadius creates a filter that keeps needs within the configured distance of the profile.
func NewRadius() Filter {
	return &radiusFilter{}
}

func (f *radiusFilter) Name() string { return "radius" }

func (f *radiusFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *radiusFilter) IsEnabled() bool { return !f.disabled }

func (f *radiusFilter) Validate(cfg *Config) error {
	f.maxKm = 0
	if cfg != nil {
		f.maxKm = cfg.MaxDistanceKm
	}
	return nil
}

func (f *radiusFilter) Apply(_ context.Context, deps Deps, n *needs.Needs) (*needs.Needs, Step, error) {
	initial := n.Len()
	if f.maxKm <= 0 {
		return n, Step{Initial: initial, Dropped: 0, Left: n.Len()}, nil
	}

	if deps.Profile == nil || !deps.Profile.HasCoordinates() {
		deps.Logger.Info("profile has no coordinates, skipping radius filter",
			zap.Float64("max_distance_km", f.maxKm),
		)
		return n, Step{Initial: initial, Dropped: 0, Left: n.Len()}, nil
	}

	n.Items = ByRadius(deps.Calculator, n.Items, deps.Profile, f.maxKm)
	left := n.Len()
	return n, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *radiusFilter) Status() Status {
	details := map[string]string{}
	if f.maxKm > 0 {
		details["max_distance_km"] = strconv.FormatFloat(f.maxKm, 'f', -1, 64)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
