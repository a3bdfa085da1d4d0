// Package store persists analysis snapshots to a local sqlite database so a
// restarted server can answer from the last completed pass and so
// unchanged files can be detected by content hash.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"archmap/internal/graph"
	"archmap/util"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path         TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	content_hash TEXT NOT NULL DEFAULT '',
	updated_at   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS symbols (
	id        TEXT PRIMARY KEY,
	file      TEXT NOT NULL,
	name      TEXT NOT NULL,
	kind      TEXT NOT NULL,
	signature TEXT NOT NULL DEFAULT '',
	exported  INTEGER NOT NULL DEFAULT 0,
	line      INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Store wraps the sqlite database holding the persisted snapshot.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces the persisted snapshot and re-syncs the per-file
// and per-symbol rows in one transaction.
func (s *Store) SaveSnapshot(snap *graph.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	now := time.Now().Unix()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (id, payload, created_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		payload, now); err != nil {
		return fmt.Errorf("save snapshot payload: %w", err)
	}

	fileStmt, err := tx.Prepare(
		`INSERT INTO files (path, kind, content_hash, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET kind = excluded.kind,
		 content_hash = excluded.content_hash, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare file upsert: %w", err)
	}
	defer fileStmt.Close()
	for _, f := range snap.Files {
		if _, err := fileStmt.Exec(f.Path, string(f.Kind), f.ContentHash, now); err != nil {
			return fmt.Errorf("upsert file %s: %w", f.Path, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM symbols`); err != nil {
		return fmt.Errorf("clear symbols: %w", err)
	}
	symStmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO symbols (id, file, name, kind, signature, exported, line)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare symbol insert: %w", err)
	}
	defer symStmt.Close()
	for _, rec := range snap.Symbols {
		id := util.SymbolID(rec.File, rec.Name, rec.Line)
		exported := 0
		if rec.Exported {
			exported = 1
		}
		if _, err := symStmt.Exec(id, rec.File, rec.Name, rec.Kind, rec.Signature, exported, rec.Line); err != nil {
			return fmt.Errorf("insert symbol %s in %s: %w", rec.Name, rec.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadSnapshot returns the last persisted snapshot, or (nil, nil) when no
// pass has been saved yet.
func (s *Store) LoadSnapshot() (*graph.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM snapshots WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// LoadFileHashes returns the persisted content hash per path, used to skip
// work for unchanged files on the next pass.
func (s *Store) LoadFileHashes() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT path, content_hash FROM files WHERE content_hash != ''`)
	if err != nil {
		return nil, fmt.Errorf("load file hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("scan file hash: %w", err)
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// PruneStale removes file and symbol rows for paths no longer present in
// the workspace. Returns the number of file rows removed.
func (s *Store) PruneStale(keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	rows, err := s.db.Query(`SELECT path FROM files`)
	if err != nil {
		return 0, fmt.Errorf("list stored files: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan stored path: %w", err)
		}
		if !keepSet[path] {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, path := range stale {
		if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("prune file %s: %w", path, err)
		}
		if _, err := tx.Exec(`DELETE FROM symbols WHERE file = ?`, path); err != nil {
			return 0, fmt.Errorf("prune symbols for %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return len(stale), nil
}
