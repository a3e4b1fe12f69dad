package session

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists session state in a single-table embedded database
// on the device. The cgo-free driver keeps the client a plain static
// binary.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schema := `
		CREATE TABLE IF NOT EXISTS session_kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	query := `SELECT v FROM session_kv WHERE k = ?`
	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	query := `
		INSERT INTO session_kv (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v
	`
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
