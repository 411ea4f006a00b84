package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"intercepts/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS commodities (
  code TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  sourceFile TEXT NOT NULL,
  variant TEXT NOT NULL,
  successCount INTEGER NOT NULL,
  skippedCount INTEGER NOT NULL,
  excludedCount INTEGER NOT NULL,
  diagnosticsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  term TEXT NOT NULL,
  message TEXT NOT NULL,
  valid INTEGER NOT NULL,
  countryReference INTEGER NOT NULL,
  erroneousDigitLength INTEGER NOT NULL DEFAULT 0,
  UNIQUE(runId, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_records_term ON records(term);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertCommodities(records []internal.CommodityRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO commodities (code, kind, lastSeenAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(code) DO UPDATE SET
  kind=excluded.kind,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Code, string(r.Kind)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListCommodities() ([]internal.CommodityRecord, error) {
	rows, err := d.conn.Query(`SELECT code, kind FROM commodities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CommodityRecord
	for rows.Next() {
		var r internal.CommodityRecord
		var kind string
		if err := rows.Scan(&r.Code, &kind); err != nil {
			return nil, err
		}
		r.Kind = internal.EntityKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) CountCommodities() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM commodities`).Scan(&n)
	return n, err
}

// InsertRun stores a run and its records in one transaction and returns the run id.
func (d *DB) InsertRun(run internal.RunRow, records []internal.RecordRow) (int64, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
INSERT INTO runs (traceId, sourceFile, variant, successCount, skippedCount, excludedCount, diagnosticsJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.SourceFile, run.Variant, run.SuccessCount, run.SkippedCount, run.ExcludedCount, run.DiagnosticsJSON)
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO records (runId, position, term, message, valid, countryReference, erroneousDigitLength)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Position, r.Term, r.Message, r.Valid, r.CountryReference, r.ErroneousDigitLength); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, sourceFile, variant, successCount, skippedCount, excludedCount, diagnosticsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		if err := rows.Scan(&row.ID, &row.TraceID, &row.SourceFile, &row.Variant, &row.SuccessCount, &row.SkippedCount, &row.ExcludedCount, &row.DiagnosticsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetRun(id int) (*internal.RunRow, error) {
	var row internal.RunRow
	err := d.conn.QueryRow(`
SELECT id, traceId, sourceFile, variant, successCount, skippedCount, excludedCount, diagnosticsJson, createdAt
FROM runs WHERE id = ?
`, id).Scan(&row.ID, &row.TraceID, &row.SourceFile, &row.Variant, &row.SuccessCount, &row.SkippedCount, &row.ExcludedCount, &row.DiagnosticsJSON, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustRun(id int) (internal.RunRow, error) {
	row, err := d.GetRun(id)
	if err != nil {
		return internal.RunRow{}, err
	}
	if row == nil {
		return internal.RunRow{}, fmt.Errorf("run not found: id=%d", id)
	}
	return *row, nil
}

// GetExportRows returns the valid records of a run in publication order.
func (d *DB) GetExportRows(runID int) ([]internal.ExportRow, error) {
	rows, err := d.conn.Query(`
SELECT term, message FROM records
WHERE runId = ? AND valid = 1
ORDER BY position ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ExportRow
	for rows.Next() {
		var row internal.ExportRow
		if err := rows.Scan(&row.Term, &row.Message); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
