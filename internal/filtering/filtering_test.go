package filtering

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

var (
	mumbai = &geo.Coordinates{Lat: 19.0760, Lng: 72.8777}
	thane  = &geo.Coordinates{Lat: 19.2183, Lng: 72.9781}
	pune   = &geo.Coordinates{Lat: 18.5204, Lng: 73.8567}
)

func testCalculator(t *testing.T) *geo.Calculator {
	t.Helper()

	table, err := geo.DefaultCentroids()
	require.NoError(t, err)

	return geo.NewCalculator(table)
}

func testNeeds() []*needs.Need {
	return []*needs.Need{
		{ID: "thane", Category: "Food", ShelterCity: "Thane", Coordinates: thane},
		{ID: "pune", Category: "Education", ShelterCity: "Pune", Coordinates: pune},
		{ID: "navi", Category: "Clothing", ShelterCity: "Navi Mumbai"},
		{ID: "nowhere", Category: "Food", ShelterCity: "Atlantis"},
	}
}

func ids(items []*needs.Need) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestByRadius(t *testing.T) {
	calc := testCalculator(t)
	items := testNeeds()

	got := ByRadius(calc, items, &needs.Profile{City: "Mumbai", Coordinates: mumbai}, 50)
	assert.Equal(t, []string{"thane", "navi"}, ids(got), "unresolved distance is outside the radius")

	got = ByRadius(calc, items, &needs.Profile{City: "Mumbai", Coordinates: mumbai}, 200)
	assert.Equal(t, []string{"thane", "pune", "navi"}, ids(got))

	got = ByRadius(calc, items, &needs.Profile{City: "Mumbai", Coordinates: mumbai}, 17)
	assert.Empty(t, got, "the bound is exclusive")
}

func TestByRadiusWithoutCoordinatesIsUnchanged(t *testing.T) {
	calc := testCalculator(t)
	items := testNeeds()

	assert.Equal(t, items, ByRadius(calc, items, &needs.Profile{City: "Mumbai"}, 50))
	assert.Equal(t, items, ByRadius(calc, items, &needs.Profile{Coordinates: &geo.Coordinates{Lat: 91}}, 50))
	assert.Equal(t, items, ByRadius(calc, items, nil, 50))
}

func TestByRadiusIsSubset(t *testing.T) {
	calc := testCalculator(t)
	items := testNeeds()
	profile := &needs.Profile{Coordinates: pune}

	for _, km := range []float64{0, 10, 100, 150, 1000, 5000} {
		got := ByRadius(calc, items, profile, km)
		assert.Subset(t, ids(items), ids(got), "km=%v", km)
	}
	assert.Len(t, items, 4, "input is not modified")
}

func TestRunPipeline(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	calc := testCalculator(t)

	excludePath := filepath.Join(t.TempDir(), "excluded.json")
	dismissed := &needs.Needs{Items: []*needs.Need{{ID: "navi"}}}
	require.NoError(t, dismissed.ToExcluded("fulfilled").ToFile(excludePath))

	cfg := &Config{MaxDistanceKm: 150, ExcludeFile: excludePath, ExcludeCategories: []string{" education "}}
	deps := Deps{Logger: zap.New(core), Calculator: calc, Profile: &needs.Profile{Coordinates: mumbai}}
	input := &needs.Needs{Items: testNeeds()}

	left, err := Run(context.Background(), cfg, deps, Default(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"thane"}, left.IDs())
	assert.Equal(t, 4, input.Len(), "input collection is not modified")

	steps := observed.FilterMessage("filter step").All()
	require.Len(t, steps, 3)
	assert.Equal(t, "exclude_file", steps[0].ContextMap()["name"])
	assert.Equal(t, int64(1), steps[0].ContextMap()["dropped"])
	assert.Equal(t, "categories", steps[1].ContextMap()["name"])
	assert.Equal(t, int64(1), steps[1].ContextMap()["dropped"])
	assert.Equal(t, "radius", steps[2].ContextMap()["name"])
	assert.Equal(t, int64(1), steps[2].ContextMap()["dropped"])
	assert.Equal(t, int64(1), steps[2].ContextMap()["left"])
}

func TestRunRadiusWithoutCoordinatesLogs(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{Logger: zap.New(core), Calculator: testCalculator(t), Profile: &needs.Profile{City: "Mumbai"}}

	left, err := Run(context.Background(), &Config{MaxDistanceKm: 10}, deps, []Filter{NewRadius()}, &needs.Needs{Items: testNeeds()})
	require.NoError(t, err)

	assert.Equal(t, 4, left.Len())
	assert.Equal(t, 1, observed.FilterMessage("profile has no coordinates, skipping radius filter").Len())
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	steps := Default()
	DisableByName(steps, "radius", "requested")

	deps := Deps{Logger: zap.New(core), Calculator: testCalculator(t), Profile: &needs.Profile{Coordinates: mumbai}}
	left, err := Run(context.Background(), &Config{MaxDistanceKm: 1}, deps, steps, &needs.Needs{Items: testNeeds()})
	require.NoError(t, err)

	assert.Equal(t, 4, left.Len())
	assert.Equal(t, 1, observed.FilterMessage("filter disabled").Len())

	statuses := Describe(steps)
	require.Len(t, statuses, 3)
	assert.False(t, statuses[2].Enabled)
	assert.Equal(t, "requested", statuses[2].Reason)
}

func TestDisabledCategoriesKeepsNeeds(t *testing.T) {
	steps := Default()
	DisableByName(steps, "categories", "skipped")

	all := &needs.Needs{Items: []*needs.Need{{ID: "a", Category: "Food"}, {ID: "b", Category: "Education"}}}
	left, err := Run(context.Background(), &Config{ExcludeCategories: []string{"food"}}, Deps{}, steps, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, left.IDs())

	status := Describe(steps)[1]
	assert.Equal(t, "categories", status.Name)
	assert.False(t, status.Enabled)
	assert.Equal(t, "skipped", status.Reason)
}

func TestRunWithNilConfigAndLogger(t *testing.T) {
	left, err := Run(context.Background(), nil, Deps{}, Default(), &needs.Needs{Items: testNeeds()})
	require.NoError(t, err)
	assert.Equal(t, 4, left.Len())
}

func TestExcludeFileMissingIsEmpty(t *testing.T) {
	cfg := &Config{ExcludeFile: filepath.Join(t.TempDir(), "missing.json")}
	left, err := Run(context.Background(), cfg, Deps{}, []Filter{NewExcludeFile()}, &needs.Needs{Items: testNeeds()})
	require.NoError(t, err)
	assert.Equal(t, 4, left.Len())
}
