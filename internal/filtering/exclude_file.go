package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/needs"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes needs listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, n *needs.Needs) (*needs.Needs, Step, error) {
	initial := n.Len()
	if f.path == "" {
		return n, Step{Initial: initial, Dropped: 0, Left: n.Len()}, nil
	}

	excluded, err := needs.GetExcludedNeedsFromFile(f.path)
	if err != nil {
		return n, Step{}, fmt.Errorf("getting excluded needs from file: %w", err)
	}

	removed := n.Exclude(excluded.NeedIDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding needs based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_needs", removed),
			zap.Int("needs_left", n.Len()),
		)
	}

	return n, Step{Initial: initial, Dropped: len(removed), Left: n.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
