package geo

import "strings"

// Coordinates is a WGS 84 point. A nil *Coordinates means the location is unknown.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" yaml:"lng" mapstructure:"lng"`
}

// Valid reports whether the point lies within lat [-90,90] and lng [-180,180].
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationRef is one side of a distance lookup.
type LocationRef struct {
	Coordinates *Coordinates
	City        string
}

func (l LocationRef) coordinates() (Coordinates, bool) {
	if l.Coordinates == nil || !l.Coordinates.Valid() {
		return Coordinates{}, false
	}
	return *l.Coordinates, true
}

// NormalizeCity lowercases and trims a city name for lookups and comparisons.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// SameCity compares two city names case-insensitively. Empty names never match.
func SameCity(a, b string) bool {
	na, nb := NormalizeCity(a), NormalizeCity(b)
	return na != "" && na == nb
}
