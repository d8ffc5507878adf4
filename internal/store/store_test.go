package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

func TestFileSourceJSON(t *testing.T) {
	src, err := NewFileSource(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)
	defer src.Close()

	ctx := context.Background()

	list, err := src.ListNeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n-101", "n-102", "n-103"}, list.IDs())

	first := list.Items[0]
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, geo.Coordinates{Lat: 18.5204, Lng: 73.8567}, *first.Coordinates)
	assert.Equal(t, needs.UrgencyHigh, first.Urgency)
	assert.Equal(t, needs.SupportBoth, first.SupportType)
	assert.Nil(t, list.Items[1].Coordinates)

	profile, err := src.GetProfile(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, needs.RoleSponsor, profile.Role, "role is normalized")
	assert.Equal(t, []string{"Education", "Clothing"}, profile.PreferredCategories)
	assert.Equal(t, needs.DonationMonetary, profile.DonationType)

	_, err = src.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	profiles, err := src.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestFileSourceListNeedsReturnsCopy(t *testing.T) {
	src, err := NewFileSource(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)

	list, err := src.ListNeeds(context.Background())
	require.NoError(t, err)
	list.Exclude([]string{"n-101"})

	again, err := src.ListNeeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, again.Len())
}

func TestFileSourceYAML(t *testing.T) {
	src, err := Open(DriverFile, filepath.Join("testdata", "dataset.yaml"))
	require.NoError(t, err)

	list, err := src.ListNeeds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, 77.209, list.Items[0].Coordinates.Lng)

	profile, err := src.GetProfile(context.Background(), "v-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"healthcare"}, profile.Skills)
}

func TestParseDatasetErrors(t *testing.T) {
	_, err := ParseDataset([]byte(`{"needs": [{"title": "no id"}]}`), ".json")
	assert.ErrorContains(t, err, "need #0 has no id")

	_, err = ParseDataset([]byte(`{"needs": [`), ".json")
	assert.ErrorContains(t, err, "parse json")

	_, err = ParseDataset([]byte("needs: [\n"), ".yml")
	assert.ErrorContains(t, err, "parse yaml")

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open("postgres", "x")
	assert.ErrorContains(t, err, "unknown source driver")
}

func setupTestDB(t *testing.T) *SQLite {
	t.Helper()

	db, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	items := []*needs.Need{
		{ID: "b", Title: "Rice", Category: "Food", ShelterCity: "Pune", Coordinates: &geo.Coordinates{Lat: 18.52, Lng: 73.85}, Urgency: needs.UrgencyHigh, SupportType: needs.SupportDonation},
		{ID: "a", Title: "Tutors", Category: "Education", ShelterCity: "Thane", Urgency: needs.UrgencyLow, SupportType: needs.SupportVolunteer, AgeGroup: "teens"},
	}
	require.NoError(t, db.SaveNeeds(ctx, items))

	list, err := db.ListNeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, list.IDs(), "insertion order is kept")
	assert.Equal(t, *items[0], *list.Items[0])
	assert.Equal(t, *items[1], *list.Items[1])

	profiles := []*needs.Profile{
		{ID: "v1", Name: "Ravi", Role: needs.RoleVolunteer, City: "Chennai", Skills: []string{"cooking"}, PreferredAgeGroup: "any"},
		{ID: "s1", Role: needs.RoleSponsor, Coordinates: &geo.Coordinates{Lat: 19.07, Lng: 72.87}, PreferredCategories: []string{"Food"}, DonationType: needs.DonationBoth},
	}
	require.NoError(t, db.SaveProfiles(ctx, profiles))

	got, err := db.GetProfile(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, *profiles[0], *got)

	all, err := db.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, *profiles[1], *all[1])

	_, err = db.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSQLiteUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveNeeds(ctx, []*needs.Need{{ID: "a", Title: "old"}, {ID: "b"}}))
	require.NoError(t, db.SaveNeeds(ctx, []*needs.Need{{ID: "a", Title: "new"}}))

	list, err := db.ListNeeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list.IDs())
	assert.Equal(t, "new", list.FindByID("a").Title)
}

func TestSQLiteImport(t *testing.T) {
	src, err := NewFileSource(filepath.Join("testdata", "dataset.json"))
	require.NoError(t, err)

	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "karune.db"))
	require.NoError(t, err)
	defer db.Close()

	sqlite, ok := db.(*SQLite)
	require.True(t, ok)

	nNeeds, nProfiles, err := sqlite.Import(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, nNeeds)
	assert.Equal(t, 2, nProfiles)

	want, err := src.ListNeeds(context.Background())
	require.NoError(t, err)
	got, err := db.ListNeeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.IDs(), got.IDs())

	profile, err := db.GetProfile(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cooking", "delivery"}, profile.Skills)
	assert.Nil(t, profile.PreferredCategories)
}
