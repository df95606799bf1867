package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MetalWatch/internal/model"
)

// SQLiteRecorder persists analysis and alert history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads don't block watcher writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			metal          TEXT NOT NULL,
			period         TEXT NOT NULL,
			currency       TEXT NOT NULL,
			source         TEXT,
			mock           INTEGER,
			current_price  REAL,
			min_price      REAL,
			max_price      REAL,
			mean_price     REAL,
			percent_change REAL,
			volatility     REAL,
			price_position REAL,
			trend          TEXT,
			alert_triggered INTEGER,
			alert_direction TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_ts ON analysis_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			metal          TEXT NOT NULL,
			price          REAL,
			percent_change REAL,
			direction      TEXT,
			threshold      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ts ON alert_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAnalysis(snap *AnalysisSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := snap.Result
	_, err := r.db.Exec(`INSERT INTO analysis_snapshots
		(timestamp, metal, period, currency, source, mock,
		 current_price, min_price, max_price, mean_price,
		 percent_change, volatility, price_position, trend,
		 alert_triggered, alert_direction)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), string(snap.Metal), string(snap.Period), string(snap.Currency),
		snap.Source, boolToInt(snap.Mock),
		res.Current, res.Min, res.Max, res.Mean,
		res.PercentChange, res.Volatility, res.PricePosition, string(res.Trend),
		boolToInt(res.AlertTriggered), string(res.AlertDirection),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *model.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO alert_events
		(id, timestamp, metal, price, percent_change, direction, threshold)
		VALUES (?,?,?,?,?,?,?)`,
		evt.ID, evt.At.Unix(), string(evt.Metal), evt.Price,
		evt.PercentChange, string(evt.Direction), evt.Threshold,
	)
	return err
}

func (r *SQLiteRecorder) RecentAlerts(limit int) ([]model.AlertEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, timestamp, metal, price, percent_change, direction, threshold
		FROM alert_events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var events []model.AlertEvent
	for rows.Next() {
		var evt model.AlertEvent
		var ts int64
		var metal, direction string
		if err := rows.Scan(&evt.ID, &ts, &metal, &evt.Price, &evt.PercentChange, &direction, &evt.Threshold); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		evt.At = time.Unix(ts, 0)
		evt.Metal = model.Metal(metal)
		evt.Direction = model.AlertDirection(direction)
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
