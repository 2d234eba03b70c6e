// Package sqlite persists client-side state between CLI invocations: the
// store slices and the export journal.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"glpiboard/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS ui_state (
		slice      TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS export_journal (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		kind        TEXT NOT NULL,
		path        TEXT NOT NULL,
		size_bytes  INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		status      TEXT NOT NULL,
		error       TEXT DEFAULT '',
		started_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_export_journal_started_at ON export_journal(started_at);
	CREATE INDEX IF NOT EXISTS idx_export_journal_kind ON export_journal(kind);
	`
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	// Migration: journals created before scheduled delivery lack these columns.
	for _, col := range []struct{ name, ddl string }{
		{"trigger_source", `ALTER TABLE export_journal ADD COLUMN trigger_source TEXT DEFAULT 'manual'`},
		{"delivered", `ALTER TABLE export_journal ADD COLUMN delivered INTEGER DEFAULT 0`},
	} {
		var colCount int
		_ = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('export_journal') WHERE name = ?`, col.name).Scan(&colCount)
		if colCount == 0 {
			if _, err := db.Exec(col.ddl); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate export_journal.%s: %w", col.name, err)
			}
		}
	}

	return db, nil
}

// SaveSlice stores v, JSON-encoded, under name.
func SaveSlice(db *sql.DB, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slice %s: %w", name, err)
	}
	_, err = db.Exec(
		`INSERT INTO ui_state (slice, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slice) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC(),
	)
	return err
}

// LoadSlice decodes the slice stored under name into out. found is false
// when nothing was saved yet; out is then left untouched.
func LoadSlice(db *sql.DB, name string, out any) (found bool, err error) {
	var raw string
	err = db.QueryRow(`SELECT value FROM ui_state WHERE slice = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode slice %s: %w", name, err)
	}
	return true, nil
}

func DeleteSlice(db *sql.DB, name string) error {
	_, err := db.Exec(`DELETE FROM ui_state WHERE slice = ?`, name)
	return err
}

func InsertExportRecord(db *sql.DB, r domain.ExportRecord) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO export_journal (kind, path, size_bytes, duration_ms, status, error, trigger_source, delivered, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Kind, r.Path, r.SizeBytes, r.DurationMs, r.Status, r.Error, triggerOrDefault(r.Trigger), r.Delivered, r.StartedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertExportRecords journals one scheduled run in a single transaction.
func InsertExportRecords(db *sql.DB, records []domain.ExportRecord) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO export_journal (kind, path, size_bytes, duration_ms, status, error, trigger_source, delivered, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		_, err := stmt.Exec(
			r.Kind, r.Path, r.SizeBytes, r.DurationMs, r.Status, r.Error, triggerOrDefault(r.Trigger), r.Delivered, r.StartedAt.UTC(),
		)
		if err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

func MarkExportDelivered(db *sql.DB, id int64) error {
	_, err := db.Exec(`UPDATE export_journal SET delivered = 1 WHERE id = ?`, id)
	return err
}

// GetRecentExports returns the latest journal entries, newest first.
func GetRecentExports(db *sql.DB, limit int) ([]domain.ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		`SELECT id, kind, path, size_bytes, duration_ms, status, error, trigger_source, delivered, started_at
		 FROM export_journal ORDER BY started_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

// GetExport returns one journal entry; found is false when id is unknown.
func GetExport(db *sql.DB, id int64) (r domain.ExportRecord, found bool, err error) {
	rows, err := db.Query(
		`SELECT id, kind, path, size_bytes, duration_ms, status, error, trigger_source, delivered, started_at
		 FROM export_journal WHERE id = ?`, id,
	)
	if err != nil {
		return r, false, err
	}
	defer rows.Close()
	list, err := scanExports(rows)
	if err != nil || len(list) == 0 {
		return r, false, err
	}
	return list[0], true, nil
}

// GetExportsByDateRange returns entries started in [from, to). Times are
// stored in UTC.
func GetExportsByDateRange(db *sql.DB, from, to time.Time) ([]domain.ExportRecord, error) {
	rows, err := db.Query(
		`SELECT id, kind, path, size_bytes, duration_ms, status, error, trigger_source, delivered, started_at
		 FROM export_journal WHERE started_at >= ? AND started_at < ? ORDER BY started_at ASC, id ASC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExports(rows)
}

func GetExportStats(db *sql.DB, since time.Time) (domain.ExportStats, error) {
	var s domain.ExportStats
	err := db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(delivered), 0),
		        COALESCE(SUM(size_bytes), 0)
		 FROM export_journal WHERE started_at >= ?`,
		domain.ExportStatusFailed, since.UTC(),
	).Scan(&s.Total, &s.Failed, &s.Delivered, &s.Bytes)
	return s, err
}

func scanExports(rows *sql.Rows) ([]domain.ExportRecord, error) {
	var out []domain.ExportRecord
	for rows.Next() {
		var r domain.ExportRecord
		if err := rows.Scan(&r.ID, &r.Kind, &r.Path, &r.SizeBytes, &r.DurationMs, &r.Status, &r.Error,
			&r.Trigger, &r.Delivered, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func triggerOrDefault(t string) string {
	if t == "" {
		return "manual"
	}
	return t
}
