package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mumbai = &Coordinates{Lat: 19.0760, Lng: 72.8777}
	pune   = &Coordinates{Lat: 18.5204, Lng: 73.8567}
	delhi  = &Coordinates{Lat: 28.6139, Lng: 77.2090}
)

func testCalculator(t *testing.T) *Calculator {
	t.Helper()

	table, err := DefaultCentroids()
	require.NoError(t, err)

	return NewCalculator(table)
}

func TestDistanceFromCoordinates(t *testing.T) {
	calc := testCalculator(t)

	km, precision := calc.Resolve(LocationRef{Coordinates: mumbai}, LocationRef{Coordinates: pune})
	assert.Equal(t, PrecisionExact, precision)
	assert.Equal(t, 120.2, km)
}

func TestDistanceIsSymmetric(t *testing.T) {
	calc := testCalculator(t)

	points := []*Coordinates{mumbai, pune, delhi, {Lat: -33.8688, Lng: 151.2093}, {Lat: 0, Lng: 0}}
	for _, a := range points {
		for _, b := range points {
			ab, okAB := calc.Distance(LocationRef{Coordinates: a}, LocationRef{Coordinates: b})
			ba, okBA := calc.Distance(LocationRef{Coordinates: b}, LocationRef{Coordinates: a})
			require.True(t, okAB)
			require.True(t, okBA)
			assert.Equal(t, ab, ba)
		}

		self, ok := calc.Distance(LocationRef{Coordinates: a}, LocationRef{Coordinates: a})
		require.True(t, ok)
		assert.InDelta(t, 0, self, 1e-9)
	}
}

func TestDistanceZeroCoordinatesAreKnown(t *testing.T) {
	calc := testCalculator(t)

	km, ok := calc.Distance(LocationRef{Coordinates: &Coordinates{}}, LocationRef{Coordinates: &Coordinates{Lat: 0, Lng: 1}})
	require.True(t, ok)
	assert.Equal(t, 111.2, km)
}

func TestDistanceCentroidFallback(t *testing.T) {
	calc := testCalculator(t)

	km, precision := calc.Resolve(LocationRef{City: "  MUMBAI "}, LocationRef{City: "pune"})
	assert.Equal(t, PrecisionApproximate, precision)
	assert.Equal(t, 120.0, km)
}

func TestDistanceMixedSidesUseCentroid(t *testing.T) {
	calc := testCalculator(t)

	km, precision := calc.Resolve(LocationRef{Coordinates: mumbai}, LocationRef{City: "Pune"})
	assert.Equal(t, PrecisionApproximate, precision)
	assert.Equal(t, 120.0, km)
}

func TestDistanceUnresolvable(t *testing.T) {
	calc := testCalculator(t)

	tests := []struct {
		name string
		a, b LocationRef
	}{
		{name: "both empty"},
		{name: "unknown city", a: LocationRef{City: "Atlantis"}, b: LocationRef{City: "Pune"}},
		{name: "one side empty", a: LocationRef{Coordinates: mumbai}, b: LocationRef{}},
		{name: "invalid coordinates", a: LocationRef{Coordinates: &Coordinates{Lat: 91, Lng: 0}}, b: LocationRef{Coordinates: pune}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := calc.Distance(tt.a, tt.b)
			assert.False(t, ok)

			_, ok = calc.Distance(tt.b, tt.a)
			assert.False(t, ok)
		})
	}
}

func TestDistanceWithSubstitutedTable(t *testing.T) {
	calc := NewCalculator(NewCentroidTable(map[string]Coordinates{
		"Springfield": {Lat: 0, Lng: 0},
		"Shelbyville": {Lat: 0, Lng: 1},
	}))

	km, ok := calc.Distance(LocationRef{City: "springfield"}, LocationRef{City: "Shelbyville"})
	require.True(t, ok)
	assert.Equal(t, 111.0, km)

	_, ok = calc.Distance(LocationRef{City: "Mumbai"}, LocationRef{City: "Pune"})
	assert.False(t, ok)
}

func TestNilCalculatorOnlyUsesCoordinates(t *testing.T) {
	var calc *Calculator

	_, ok := calc.Distance(LocationRef{City: "Mumbai"}, LocationRef{City: "Pune"})
	assert.False(t, ok)

	km, ok := calc.Distance(LocationRef{Coordinates: mumbai}, LocationRef{Coordinates: pune})
	require.True(t, ok)
	assert.Equal(t, 120.2, km)
}

func TestAntipodalDistanceIsFinite(t *testing.T) {
	calc := testCalculator(t)
	halfCircumference := math.Pi * EarthRadiusKm

	for lat := -89.5; lat <= 89.5; lat += 0.5 {
		for lng := -180.0; lng < 180; lng += 7.5 {
			opposite := lng + 180
			if opposite > 180 {
				opposite -= 360
			}
			a := &Coordinates{Lat: lat, Lng: lng}
			b := &Coordinates{Lat: -lat, Lng: opposite}

			raw := Haversine(*a, *b)
			require.False(t, math.IsNaN(raw), "a=%v b=%v", *a, *b)
			assert.InDelta(t, halfCircumference, raw, 0.01, "a=%v b=%v", *a, *b)

			ab, ok := calc.Distance(LocationRef{Coordinates: a}, LocationRef{Coordinates: b})
			require.True(t, ok)
			ba, _ := calc.Distance(LocationRef{Coordinates: b}, LocationRef{Coordinates: a})
			assert.Equal(t, ab, ba)
			assert.InDelta(t, 20015.1, ab, 0.1)
		}
	}
}
