// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package incidents

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aduamah/firefinder/spatial"
	"github.com/uber/h3-go/v4"
)

// ErrNotFound is returned when an incident id does not exist.
var ErrNotFound = errors.New("incident not found")

// Repository handles persistence of incident reports.
type Repository interface {
	// CreateSchema creates the incidents table.
	CreateSchema() error

	// Save validates and inserts a report, assigning its id.
	Save(inc *Incident) error

	// List returns incidents, newest first, optionally filtered by status.
	List(status *string, limit, offset int) ([]*Incident, error)

	// Get returns one incident by id.
	Get(id int) (*Incident, error)

	// UpdateStatus transitions an incident, optionally recording the
	// dispatched station.
	UpdateStatus(id int, status, stationKey string) error

	// Hotspots aggregates incidents into H3 cells at the given resolution.
	Hotspots(resolution, limit int) ([]*Hotspot, error)

	// DB returns the underlying database connection.
	DB() *sql.DB
}

type sqlIncidentRepository struct {
	db *sql.DB
}

// NewRepository creates an incident repository over a DuckDB connection.
func NewRepository(db *sql.DB) Repository {
	return &sqlIncidentRepository{db: db}
}

func (r *sqlIncidentRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlIncidentRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS incidents_seq START 1;

		CREATE TABLE IF NOT EXISTS incidents (
			id INTEGER PRIMARY KEY DEFAULT nextval('incidents_seq'),
			description VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			severity VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			region VARCHAR,
			reporter_contact VARCHAR,
			station_key VARCHAR,
			reported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res5 BIGINT,
			h3_res6 BIGINT,
			h3_res7 BIGINT,
			h3_res8 BIGINT
		);
	`)

	return err
}

func (r *sqlIncidentRepository) Save(inc *Incident) error {
	if err := validateIncident(inc); err != nil {
		return err
	}

	if inc.Status == "" {
		inc.Status = StatusReported
	}

	if err := inc.computeH3(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if inc.ReportedAt.IsZero() {
		inc.ReportedAt = now
	}

	inc.UpdatedAt = now

	row := r.db.QueryRow(`
		INSERT INTO incidents(
			description, category, severity, status, lat, lng, region,
			reporter_contact, station_key,
			reported_at, updated_at, h3_res5, h3_res6, h3_res7, h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		inc.Description,
		inc.Category,
		inc.Severity,
		inc.Status,
		inc.Point.Lat,
		inc.Point.Lng,
		nullableString(inc.Region),
		nullableString(inc.ReporterContact),
		nullableString(inc.StationKey),
		inc.ReportedAt,
		inc.UpdatedAt,
		inc.H3Res5,
		inc.H3Res6,
		inc.H3Res7,
		inc.H3Res8,
	)

	return row.Scan(&inc.ID)
}

func (r *sqlIncidentRepository) List(status *string, limit, offset int) ([]*Incident, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, description, category, severity, status, lat, lng, region,
		       reporter_contact, station_key, reported_at, updated_at,
		       h3_res5, h3_res6, h3_res7, h3_res8
		FROM incidents
	`

	var args []any

	if status != nil {
		query += " WHERE status = ?"

		args = append(args, *status)
	}

	query += " ORDER BY reported_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing incidents: %w", err)
	}
	defer rows.Close()

	var out []*Incident

	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, inc)
	}

	return out, rows.Err()
}

func (r *sqlIncidentRepository) Get(id int) (*Incident, error) {
	row := r.db.QueryRow(`
		SELECT id, description, category, severity, status, lat, lng, region,
		       reporter_contact, station_key, reported_at, updated_at,
		       h3_res5, h3_res6, h3_res7, h3_res8
		FROM incidents
		WHERE id = ?
	`, id)

	inc, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return inc, err
}

func (r *sqlIncidentRepository) UpdateStatus(id int, status, stationKey string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid status: %s", status)
	}

	res, err := r.db.Exec(`
		UPDATE incidents
		SET status = ?,
		    station_key = COALESCE(?, station_key),
		    updated_at = ?
		WHERE id = ?
	`, status, nullableString(stationKey), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *sqlIncidentRepository) Hotspots(resolution, limit int) ([]*Hotspot, error) {
	if resolution < MinHotspotResolution || resolution > MaxHotspotResolution {
		return nil, fmt.Errorf("resolution must be between %d and %d", MinHotspotResolution, MaxHotspotResolution)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	// The column name is derived from the validated resolution, never from
	// caller input directly.
	column := fmt.Sprintf("h3_res%d", resolution)

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT %s, COUNT(*) AS n
		FROM incidents
		WHERE status <> ?
		GROUP BY %s
		ORDER BY n DESC, %s
		LIMIT ?
	`, column, column, column), StatusFalseAlarm, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregating hotspots: %w", err)
	}
	defer rows.Close()

	var out []*Hotspot

	for rows.Next() {
		var (
			raw   int64
			count int
		)

		if err := rows.Scan(&raw, &count); err != nil {
			return nil, err
		}

		cell := h3.Cell(raw)

		center, err := h3.CellToLatLng(cell)
		if err != nil {
			return nil, fmt.Errorf("resolving cell center: %w", err)
		}

		out = append(out, &Hotspot{
			Cell:       cell.String(),
			Resolution: resolution,
			Center:     spatial.Point{Lat: center.Lat, Lng: center.Lng},
			Count:      count,
		})
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*Incident, error) {
	var (
		inc        Incident
		region     sql.NullString
		contact    sql.NullString
		stationKey sql.NullString
	)

	err := row.Scan(
		&inc.ID,
		&inc.Description,
		&inc.Category,
		&inc.Severity,
		&inc.Status,
		&inc.Point.Lat,
		&inc.Point.Lng,
		&region,
		&contact,
		&stationKey,
		&inc.ReportedAt,
		&inc.UpdatedAt,
		&inc.H3Res5,
		&inc.H3Res6,
		&inc.H3Res7,
		&inc.H3Res8,
	)
	if err != nil {
		return nil, err
	}

	inc.Region = region.String
	inc.ReporterContact = contact.String
	inc.StationKey = stationKey.String

	return &inc, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
