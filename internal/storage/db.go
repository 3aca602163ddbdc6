package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"batidoc/internal"
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
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  filename TEXT NOT NULL,
  hash TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(hash)
);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  documentId INTEGER,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  quantity REAL,
  unit TEXT,
  price REAL,
  currency TEXT,
  supplier TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_items_runId ON items(runId);
CREATE INDEX IF NOT EXISTS idx_items_name ON items(name);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL UNIQUE,
  documentId INTEGER,
  method TEXT NOT NULL,
  statsJson TEXT NOT NULL,
  analysisJson TEXT,
  durationMs REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// UpsertDocument records a source document by content hash and returns its
// row, reusing the existing row when the same file is ingested twice.
func (d *DB) UpsertDocument(kind, filename, hash string) (internal.DocumentRow, error) {
	_, err := d.conn.Exec(
		`INSERT INTO documents (kind, filename, hash) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET filename = excluded.filename`,
		kind, filename, hash,
	)
	if err != nil {
		return internal.DocumentRow{}, err
	}

	row := d.conn.QueryRow(`SELECT id, kind, filename, hash, createdAt FROM documents WHERE hash = ?`, hash)
	var doc internal.DocumentRow
	if err := row.Scan(&doc.ID, &doc.Kind, &doc.Filename, &doc.Hash, &doc.CreatedAt); err != nil {
		return internal.DocumentRow{}, err
	}
	return doc, nil
}

// SaveRun persists a finished extraction atomically: the run audit row plus
// every item in one transaction. Nothing is written for runs that never
// finish, so a cancelled request leaves no partial state.
func (d *DB) SaveRun(runID string, documentID int, result internal.ExtractionResult, durationMs float64) error {
	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return err
	}
	var analysisJSON any
	if result.Analysis != nil {
		b, err := json.Marshal(result.Analysis)
		if err != nil {
			return err
		}
		analysisJSON = string(b)
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var docID any
	if documentID > 0 {
		docID = documentID
	}

	if _, err := tx.Exec(
		`INSERT INTO runs (runId, documentId, method, statsJson, analysisJson, durationMs) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, docID, string(result.Method), string(statsJSON), analysisJSON, durationMs,
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO items (runId, documentId, name, description, category, quantity, unit, price, currency, supplier)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range result.Items {
		if _, err := stmt.Exec(
			runID, docID, item.Name,
			nullString(item.Description), nullString(item.Category),
			nullFloat(item.Quantity), nullString(item.Unit),
			nullFloat(item.Price), nullString(item.Currency), nullString(item.Supplier),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ItemsByRun returns the persisted items of one run in insertion order.
func (d *DB) ItemsByRun(runID string) ([]internal.ExtractedItem, error) {
	rows, err := d.conn.Query(
		`SELECT name, description, category, quantity, unit, price, currency, supplier
		 FROM items WHERE runId = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.ExtractedItem{}
	for rows.Next() {
		var item internal.ExtractedItem
		var description, category, unit, currency, supplier sql.NullString
		var quantity, price sql.NullFloat64
		if err := rows.Scan(&item.Name, &description, &category, &quantity, &unit, &price, &currency, &supplier); err != nil {
			return nil, err
		}
		item.Description = fromNullString(description)
		item.Category = fromNullString(category)
		item.Quantity = fromNullFloat(quantity)
		item.Unit = fromNullString(unit)
		item.Price = fromNullFloat(price)
		item.Currency = fromNullString(currency)
		item.Supplier = fromNullString(supplier)
		out = append(out, item)
	}
	return out, rows.Err()
}

// RunMethod returns the method label recorded for a run.
func (d *DB) RunMethod(runID string) (string, error) {
	var method string
	err := d.conn.QueryRow(`SELECT method FROM runs WHERE runId = ?`, runID).Scan(&method)
	return method, err
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
