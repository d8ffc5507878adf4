package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/karune-connect/matcher/internal/needs"
)

// FileSource serves a dataset file loaded once at construction.
// JSON and YAML are accepted, chosen by extension.
type FileSource struct {
	path    string
	dataset *Dataset
}

func NewFileSource(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dataset path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %q: %w", path, err)
	}

	dataset, err := ParseDataset(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", path, err)
	}

	return &FileSource{path: path, dataset: dataset}, nil
}

// ParseDataset decodes a dataset document. ext selects YAML for ".yaml" and ".yml", JSON otherwise.
func ParseDataset(data []byte, ext string) (*Dataset, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	return decodeDataset(raw)
}

func (f *FileSource) ListNeeds(ctx context.Context) (*needs.Needs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &needs.Needs{Items: slices.Clone(f.dataset.Needs)}, nil
}

func (f *FileSource) GetProfile(ctx context.Context, id string) (*needs.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return findProfile(f.dataset.Profiles, id)
}

func (f *FileSource) ListProfiles(ctx context.Context) ([]*needs.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(f.dataset.Profiles), nil
}

func (f *FileSource) Close() error { return nil }
