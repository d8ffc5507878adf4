package filtering

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/needs"
)

type categoriesFilter struct {
	categories []string
	disabled   bool
	reason     string
}

// NewCategories creates a filter that removes needs in the configured categories.
func NewCategories() Filter {
	return &categoriesFilter{}
}

func (f *categoriesFilter) Name() string { return "categories" }

func (f *categoriesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *categoriesFilter) IsEnabled() bool { return !f.disabled }

func (f *categoriesFilter) Validate(cfg *Config) error {
	f.categories = nil
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.ExcludeCategories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			f.categories = append(f.categories, c)
		}
	}
	return nil
}

func (f *categoriesFilter) Apply(_ context.Context, deps Deps, n *needs.Needs) (*needs.Needs, Step, error) {
	initial := n.Len()
	if len(f.categories) == 0 {
		return n, Step{Initial: initial, Dropped: 0, Left: n.Len()}, nil
	}

	var ids []string
	for _, need := range n.Items {
		if slices.Contains(f.categories, strings.ToLower(strings.TrimSpace(need.Category))) {
			ids = append(ids, need.ID)
		}
	}

	excluded := n.Exclude(ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding needs by category",
			zap.Strings("excluded_categories", f.categories),
			zap.Strings("excluded_needs", excluded),
			zap.Int("needs_left", n.Len()),
		)
	}

	return n, Step{Initial: initial, Dropped: len(excluded), Left: n.Len()}, nil
}

func (f *categoriesFilter) Status() Status {
	details := map[string]string{}
	if len(f.categories) > 0 {
		details["categories"] = strings.Join(f.categories, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
