package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/needs"
)

const schema = `
	CREATE TABLE IF NOT EXISTS needs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		shelter_city TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		urgency TEXT NOT NULL DEFAULT '',
		support_type TEXT NOT NULL DEFAULT '',
		age_group TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		preferred_categories TEXT NOT NULL DEFAULT '[]',
		skills TEXT NOT NULL DEFAULT '[]',
		donation_type TEXT NOT NULL DEFAULT '',
		preferred_age_group TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_needs_shelter_city ON needs(shelter_city);
`

// SQLite stores needs and profiles in a SQLite database.
// Needs are listed in insertion order.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLite) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveNeeds inserts or replaces needs in a single transaction.
func (s *SQLite) SaveNeeds(ctx context.Context, items []*needs.Need) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO needs (id, title, category, shelter_city, latitude, longitude, urgency, support_type, age_group)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				category = excluded.category,
				shelter_city = excluded.shelter_city,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				urgency = excluded.urgency,
				support_type = excluded.support_type,
				age_group = excluded.age_group`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, n := range items {
			lat, lng := nullCoordinates(n.Coordinates)
			if _, err := stmt.ExecContext(ctx, n.ID, n.Title, n.Category, n.ShelterCity, lat, lng,
				string(n.Urgency), string(n.SupportType), n.AgeGroup); err != nil {
				return fmt.Errorf("saving need %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

// SaveProfiles inserts or replaces profiles in a single transaction.
func (s *SQLite) SaveProfiles(ctx context.Context, profiles []*needs.Profile) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO profiles (id, name, role, city, latitude, longitude, preferred_categories, skills, donation_type, preferred_age_group)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				role = excluded.role,
				city = excluded.city,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				preferred_categories = excluded.preferred_categories,
				skills = excluded.skills,
				donation_type = excluded.donation_type,
				preferred_age_group = excluded.preferred_age_group`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range profiles {
			categories, err := encodeList(p.PreferredCategories)
			if err != nil {
				return err
			}
			skills, err := encodeList(p.Skills)
			if err != nil {
				return err
			}
			lat, lng := nullCoordinates(p.Coordinates)
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, string(p.Role), p.City, lat, lng,
				categories, skills, string(p.DonationType), p.PreferredAgeGroup); err != nil {
				return fmt.Errorf("saving profile %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Import copies every need and profile from src.
func (s *SQLite) Import(ctx context.Context, src Source) (needCount, profileCount int, err error) {
	list, err := src.ListNeeds(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading needs: %w", err)
	}
	profiles, err := src.ListProfiles(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading profiles: %w", err)
	}

	if err := s.SaveNeeds(ctx, list.Items); err != nil {
		return 0, 0, err
	}
	if err := s.SaveProfiles(ctx, profiles); err != nil {
		return list.Len(), 0, err
	}
	return list.Len(), len(profiles), nil
}

func (s *SQLite) ListNeeds(ctx context.Context) (*needs.Needs, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, shelter_city, latitude, longitude, urgency, support_type, age_group
		FROM needs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing needs: %w", err)
	}
	defer rows.Close()

	list := &needs.Needs{}
	for rows.Next() {
		var (
			n        needs.Need
			lat, lng sql.NullFloat64
			urgency  string
			support  string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Category, &n.ShelterCity, &lat, &lng, &urgency, &support, &n.AgeGroup); err != nil {
			return nil, fmt.Errorf("scanning need: %w", err)
		}
		n.Urgency = needs.Urgency(urgency)
		n.SupportType = needs.SupportType(support)
		n.Coordinates = coordinatesFrom(lat, lng)
		list.Items = append(list.Items, &n)
	}
	return list, rows.Err()
}

func (s *SQLite) GetProfile(ctx context.Context, id string) (*needs.Profile, error) {
	row := s.db.QueryRowContext(ctx, profileQuery+` WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLite) ListProfiles(ctx context.Context) ([]*needs.Profile, error) {
	rows, err := s.db.QueryContext(ctx, profileQuery+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*needs.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

const profileQuery = `
	SELECT id, name, role, city, latitude, longitude, preferred_categories, skills, donation_type, preferred_age_group
	FROM profiles`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*needs.Profile, error) {
	var (
		p                  needs.Profile
		role, donation     string
		lat, lng           sql.NullFloat64
		categories, skills string
	)
	if err := row.Scan(&p.ID, &p.Name, &role, &p.City, &lat, &lng, &categories, &skills, &donation, &p.PreferredAgeGroup); err != nil {
		return nil, err
	}
	p.Role = needs.ParseRole(role)
	p.DonationType = needs.DonationType(donation)
	p.Coordinates = coordinatesFrom(lat, lng)
	if err := json.Unmarshal([]byte(categories), &p.PreferredCategories); err != nil {
		return nil, fmt.Errorf("decoding preferred categories: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	if len(p.PreferredCategories) == 0 {
		p.PreferredCategories = nil
	}
	if len(p.Skills) == 0 {
		p.Skills = nil
	}
	return &p, nil
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullCoordinates(c *geo.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

func coordinatesFrom(lat, lng sql.NullFloat64) *geo.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &geo.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
