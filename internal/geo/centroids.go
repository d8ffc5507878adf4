package geo

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed centroids.yaml
var defaultCentroids []byte

// CentroidTable maps normalized city names to a representative point.
// It is read-only after construction and safe for concurrent use.
type CentroidTable struct {
	cities map[string]Coordinates
}

type centroidFile struct {
	Cities map[string]Coordinates `yaml:"cities"`
}

// DefaultCentroids returns the table shipped with the binary.
func DefaultCentroids() (*CentroidTable, error) {
	return ParseCentroids(defaultCentroids)
}

// LoadCentroids reads a YAML centroid table from path.
func LoadCentroids(path string) (*CentroidTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading centroid table %q: %w", path, err)
	}

	table, err := ParseCentroids(data)
	if err != nil {
		return nil, fmt.Errorf("centroid table %q: %w", path, err)
	}

	return table, nil
}

// ParseCentroids decodes a YAML document of the form `cities: {name: {lat, lng}}`.
func ParseCentroids(data []byte) (*CentroidTable, error) {
	var file centroidFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse centroids: %w", err)
	}

	cities := make(map[string]Coordinates, len(file.Cities))
	for name, point := range file.Cities {
		key := NormalizeCity(name)
		if key == "" {
			continue
		}
		if !point.Valid() {
			return nil, fmt.Errorf("parse centroids: city %q has out of range coordinates (%v, %v)", name, point.Lat, point.Lng)
		}
		cities[key] = point
	}

	return &CentroidTable{cities: cities}, nil
}

// NewCentroidTable builds a table from an in-memory map. Keys are normalized.
func NewCentroidTable(cities map[string]Coordinates) *CentroidTable {
	normalized := make(map[string]Coordinates, len(cities))
	for name, point := range cities {
		if key := NormalizeCity(name); key != "" {
			normalized[key] = point
		}
	}
	return &CentroidTable{cities: normalized}
}

// Lookup returns the centroid for city, if known.
func (t *CentroidTable) Lookup(city string) (Coordinates, bool) {
	if t == nil {
		return Coordinates{}, false
	}
	point, ok := t.cities[NormalizeCity(city)]
	return point, ok
}

func (t *CentroidTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cities)
}
