// Package sqlite backs the profile, metrics, and affiliation stores with
// a pure-Go SQLite database (modernc.org/sqlite), following the same
// open/ensure-table/query shape as the teacher's machine-state store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/veilrelay/autoselect"
)

// Store opens one database file holding the profiles, metrics, and
// affiliations tables. Production code constructs one Store per data
// root and shares it across the ProfileStore/MetricsStore/
// AffiliationStore adapters below.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures all three tables exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: one writer at a time

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	kind TEXT NOT NULL,
	host TEXT NOT NULL,
	port TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS metrics (
	id TEXT PRIMARY KEY,
	avg_rtt_ms REAL NOT NULL,
	avg_jitter_ms REAL NOT NULL,
	avg_throughput_kb REAL NOT NULL,
	success_count INTEGER NOT NULL,
	failure_count INTEGER NOT NULL,
	last_update_time_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS affiliations (
	id TEXT PRIMARY KEY,
	quality TEXT NOT NULL,
	note TEXT NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProfileStore adapts Store to autoselect.ProfileStore.
type ProfileStore struct{ S *Store }

var _ autoselect.ProfileStore = ProfileStore{}

func (p ProfileStore) Lookup(ctx context.Context, id string) (autoselect.Profile, bool, error) {
	row := p.S.db.QueryRowContext(ctx,
		`SELECT id, label, kind, host, port FROM profiles WHERE id = ?`, id)

	var prof autoselect.Profile
	var kind string
	if err := row.Scan(&prof.ID, &prof.Label, &kind, &prof.Host, &prof.Port); err != nil {
		if err == sql.ErrNoRows {
			return autoselect.Profile{}, false, nil
		}
		return autoselect.Profile{}, false, fmt.Errorf("lookup profile %s: %w", id, err)
	}
	prof.Kind = autoselect.ConnectionKind(kind)
	return prof, true, nil
}

// Write persists profile under id and returns id unchanged: this adapter
// never reassigns identifiers, though the port allows it (§6).
func (p ProfileStore) Write(ctx context.Context, id string, profile autoselect.Profile) (string, error) {
	_, err := p.S.db.ExecContext(ctx, `
INSERT INTO profiles (id, label, kind, host, port) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET label = excluded.label, kind = excluded.kind, host = excluded.host, port = excluded.port`,
		id, profile.Label, string(profile.Kind), profile.Host, profile.Port)
	if err != nil {
		return "", fmt.Errorf("write profile %s: %w", id, err)
	}
	return id, nil
}

// MetricsStore adapts Store to autoselect.MetricsStore.
type MetricsStore struct{ S *Store }

var _ autoselect.MetricsStore = MetricsStore{}

func (m MetricsStore) Load(ctx context.Context, id string) (autoselect.HistoricalMetrics, bool, error) {
	row := m.S.db.QueryRowContext(ctx, `
SELECT avg_rtt_ms, avg_jitter_ms, avg_throughput_kb, success_count, failure_count, last_update_time_ms
FROM metrics WHERE id = ?`, id)

	var hm autoselect.HistoricalMetrics
	err := row.Scan(&hm.AverageRTTMs, &hm.AverageJitterMs, &hm.AverageThroughputKb,
		&hm.SuccessCount, &hm.FailureCount, &hm.LastUpdateTimeMs)
	if err != nil {
		if err == sql.ErrNoRows {
			return autoselect.HistoricalMetrics{}, false, nil
		}
		return autoselect.HistoricalMetrics{}, false, fmt.Errorf("load metrics %s: %w", id, err)
	}
	return hm, true, nil
}

// Save persists metrics for id as a single statement, matching the §5/§7
// "fully or not at all" requirement.
func (m MetricsStore) Save(ctx context.Context, id string, metrics autoselect.HistoricalMetrics) error {
	_, err := m.S.db.ExecContext(ctx, `
INSERT INTO metrics (id, avg_rtt_ms, avg_jitter_ms, avg_throughput_kb, success_count, failure_count, last_update_time_ms)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	avg_rtt_ms = excluded.avg_rtt_ms,
	avg_jitter_ms = excluded.avg_jitter_ms,
	avg_throughput_kb = excluded.avg_throughput_kb,
	success_count = excluded.success_count,
	failure_count = excluded.failure_count,
	last_update_time_ms = excluded.last_update_time_ms`,
		id, metrics.AverageRTTMs, metrics.AverageJitterMs, metrics.AverageThroughputKb,
		metrics.SuccessCount, metrics.FailureCount, metrics.LastUpdateTimeMs)
	if err != nil {
		return fmt.Errorf("save metrics %s: %w", id, err)
	}
	return nil
}

// AffiliationStore adapts Store to autoselect.AffiliationStore.
type AffiliationStore struct{ S *Store }

var _ autoselect.AffiliationStore = AffiliationStore{}

func (a AffiliationStore) Get(ctx context.Context, id string) (string, string, bool, error) {
	row := a.S.db.QueryRowContext(ctx, `SELECT quality, note FROM affiliations WHERE id = ?`, id)

	var quality, note string
	if err := row.Scan(&quality, &note); err != nil {
		if err == sql.ErrNoRows {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("load affiliation %s: %w", id, err)
	}
	return quality, note, true, nil
}

func (a AffiliationStore) Set(ctx context.Context, id string, quality string, note string) error {
	_, err := a.S.db.ExecContext(ctx, `
INSERT INTO affiliations (id, quality, note) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET quality = excluded.quality, note = excluded.note`,
		id, quality, note)
	if err != nil {
		return fmt.Errorf("save affiliation %s: %w", id, err)
	}
	return nil
}
