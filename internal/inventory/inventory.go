// Package inventory persists discovery snapshots in a local SQLite database
// so that the disk population of a host can be compared across runs.
package inventory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hostutils/diskinfo/internal/block"
)

// Store wraps the SQLite database holding scan snapshots.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("inventory: create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("inventory: open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("inventory: configure database: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("inventory: migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	if err := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
		migrationV2,
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d: %w", v, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    disk_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS disks (
    id INTEGER PRIMARY KEY,
    scan_id TEXT NOT NULL REFERENCES scans(id),
    name TEXT NOT NULL,
    devid TEXT NOT NULL,
    type TEXT,
    model TEXT,
    serial TEXT,
    wwn TEXT,
    firmware TEXT,
    size_blocks INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_disks_scan ON disks(scan_id);
`

const migrationV2 = `
CREATE INDEX IF NOT EXISTS idx_disks_serial ON disks(serial);
`

// Scan is one discovery snapshot.
type Scan struct {
	ID        string
	StartedAt time.Time
	DiskCount int
}

// NewScan returns a Scan stamped with a fresh identifier and the current
// time.
func NewScan() Scan {
	return Scan{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// DiskRecord is the persisted shape of one discovered disk.
type DiskRecord struct {
	Name       string
	DevID      string
	Type       string
	Model      string
	Serial     string
	WWN        string
	Firmware   string
	SizeBlocks uint64
}

// RecordFor flattens a disk model into its persisted shape. Optional
// attributes that are absent or failed store as empty strings.
func RecordFor(d *block.Disk) DiskRecord {
	return DiskRecord{
		Name:       d.Name(),
		DevID:      d.DevID(),
		Type:       d.Type().String(),
		Model:      d.Model().Value(),
		Serial:     d.Serial().Value(),
		WWN:        d.WWN().Value(),
		Firmware:   d.Firmware().Value(),
		SizeBlocks: d.Size(),
	}
}

// SaveScan stores one snapshot and its disks atomically.
func (s *Store) SaveScan(scan Scan, disks []DiskRecord) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("inventory: begin: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO scans (id, started_at, disk_count) VALUES (?, ?, ?)",
		scan.ID, scan.StartedAt, len(disks),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inventory: insert scan: %w", err)
	}

	for _, d := range disks {
		_, err = tx.Exec(`
			INSERT INTO disks (scan_id, name, devid, type, model, serial, wwn, firmware, size_blocks)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			scan.ID, d.Name, d.DevID, d.Type, d.Model, d.Serial, d.WWN, d.Firmware, d.SizeBlocks,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inventory: insert disk %s: %w", d.Name, err)
		}
	}

	return tx.Commit()
}

// ListScans returns all stored snapshots, newest first.
func (s *Store) ListScans() ([]Scan, error) {
	rows, err := s.conn.Query("SELECT id, started_at, disk_count FROM scans ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("inventory: list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.StartedAt, &sc.DiskCount); err != nil {
			return nil, fmt.Errorf("inventory: scan row: %w", err)
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// DisksForScan returns the disks recorded in one snapshot, in insertion
// order.
func (s *Store) DisksForScan(scanID string) ([]DiskRecord, error) {
	rows, err := s.conn.Query(`
		SELECT name, devid, type, model, serial, wwn, firmware, size_blocks
		FROM disks WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("inventory: list disks: %w", err)
	}
	defer rows.Close()

	var disks []DiskRecord
	for rows.Next() {
		var d DiskRecord
		if err := rows.Scan(&d.Name, &d.DevID, &d.Type, &d.Model, &d.Serial, &d.WWN, &d.Firmware, &d.SizeBlocks); err != nil {
			return nil, fmt.Errorf("inventory: disk row: %w", err)
		}
		disks = append(disks, d)
	}
	return disks, rows.Err()
}
