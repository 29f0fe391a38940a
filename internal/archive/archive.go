// Package archive keeps a local sqlite journal of the history points the
// dashboard fetches, so history survives backend restarts and can be
// exported later.
package archive

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
    ts_ms           INTEGER PRIMARY KEY,
    quality         TEXT NOT NULL,
    score           INTEGER NOT NULL,
    avg_latency     REAL NOT NULL,
    avg_packet_loss REAL NOT NULL,
    jitter          REAL,
    live_ping       REAL,
    download        REAL,
    upload          REAL
);
`

// Archive is a history journal keyed by point timestamp.
type Archive struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrArchive,
				"Couldn't create the archive directory",
				"Check permissions on "+dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrArchive,
			"Couldn't open the history archive",
			"Check archive.path in your config")
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.WrapWithCode(err, errors.ErrArchive,
				"Couldn't initialize the history archive at "+path,
				"The file may not be a netsentinel archive. Move it aside and try again.")
		}
	}

	return &Archive{db: db, path: path}, nil
}

// Path returns the database file.
func (a *Archive) Path() string {
	return a.path
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Record stores points, skipping timestamps already present and points
// without a timestamp. It returns how many rows were added.
func (a *Archive) Record(ctx context.Context, points []backend.HistoryDataPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't start an archive write", "")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR IGNORE INTO history
            (ts_ms, quality, score, avg_latency, avg_packet_loss, jitter, live_ping, download, upload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't prepare an archive write", "")
	}
	defer stmt.Close()

	added := 0
	for _, p := range points {
		if p.Timestamp.IsZero() {
			continue
		}

		var download, upload sql.NullFloat64
		if p.Bandwidth != nil {
			download = sql.NullFloat64{Float64: p.Bandwidth.Download, Valid: true}
			upload = sql.NullFloat64{Float64: p.Bandwidth.Upload, Valid: true}
		}

		res, err := stmt.ExecContext(ctx,
			p.Timestamp.UnixMilli(),
			string(p.Quality.Label),
			p.Quality.Score,
			p.Quality.AvgLatency,
			p.Quality.AvgPacketLoss,
			nullable(p.Quality.Jitter),
			nullable(p.LivePing),
			download,
			upload,
		)
		if err != nil {
			return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't write to the history archive", "")
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't commit to the history archive", "")
	}
	return added, nil
}

// Points returns archived points oldest first. A positive limit keeps only
// the newest limit points; since filters out anything older.
func (a *Archive) Points(ctx context.Context, since time.Time, limit int) ([]backend.HistoryDataPoint, error) {
	query := `
        SELECT ts_ms, quality, score, avg_latency, avg_packet_loss, jitter, live_ping, download, upload
        FROM (
            SELECT * FROM history
            WHERE ts_ms >= ?
            ORDER BY ts_ms DESC
            LIMIT ?
        )
        ORDER BY ts_ms`

	var sinceMS int64
	if !since.IsZero() {
		sinceMS = since.UnixMilli()
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := a.db.QueryContext(ctx, query, sinceMS, limit)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't read the history archive", "")
	}
	defer rows.Close()

	var points []backend.HistoryDataPoint
	for rows.Next() {
		var (
			tsMS                   int64
			label                  string
			p                      backend.HistoryDataPoint
			jitter, live, down, up sql.NullFloat64
		)
		if err := rows.Scan(&tsMS, &label, &p.Quality.Score, &p.Quality.AvgLatency, &p.Quality.AvgPacketLoss,
			&jitter, &live, &down, &up); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't read the history archive", "")
		}

		p.Timestamp = backend.Timestamp{Time: time.UnixMilli(tsMS)}
		p.Quality.Label = backend.QualityLabel(label)
		p.Quality.Jitter = ptr(jitter)
		p.LivePing = ptr(live)
		if down.Valid || up.Valid {
			p.Bandwidth = &backend.Bandwidth{Download: down.Float64, Upload: up.Float64}
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't read the history archive", "")
	}
	return points, nil
}

// Count returns the number of archived points.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't count archived points", "")
	}
	return n, nil
}

// Prune deletes points older than before and returns how many went.
func (a *Archive) Prune(ctx context.Context, before time.Time) (int, error) {
	res, err := a.db.ExecContext(ctx, "DELETE FROM history WHERE ts_ms < ?", before.UnixMilli())
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrArchive, "Couldn't prune the history archive", "")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
