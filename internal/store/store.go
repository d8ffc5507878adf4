// Package store supplies needs and profiles to the matcher from a dataset file or SQLite.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/karune-connect/matcher/internal/needs"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

var ErrProfileNotFound = errors.New("profile not found")

// Source is a read-only view over needs and profiles.
type Source interface {
	ListNeeds(ctx context.Context) (*needs.Needs, error)
	GetProfile(ctx context.Context, id string) (*needs.Profile, error)
	ListProfiles(ctx context.Context) ([]*needs.Profile, error)
	Close() error
}

// Dataset is the on-disk layout of a dataset file.
type Dataset struct {
	Needs    []*needs.Need    `mapstructure:"needs"`
	Profiles []*needs.Profile `mapstructure:"profiles"`
}

// Open returns the source for driver. An empty driver means a dataset file.
func Open(driver, path string) (Source, error) {
	switch driver {
	case "", DriverFile:
		return NewFileSource(path)
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown source driver %q", driver)
	}
}

func decodeDataset(raw map[string]any) (*Dataset, error) {
	var dataset Dataset
	cfg := &mapstructure.DecoderConfig{
		Result:           &dataset,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	for i, need := range dataset.Needs {
		if need == nil || need.ID == "" {
			return nil, fmt.Errorf("need #%d has no id", i)
		}
	}
	for i, profile := range dataset.Profiles {
		if profile == nil || profile.ID == "" {
			return nil, fmt.Errorf("profile #%d has no id", i)
		}
		profile.Role = needs.ParseRole(string(profile.Role))
	}

	return &dataset, nil
}

func findProfile(profiles []*needs.Profile, id string) (*needs.Profile, error) {
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}
