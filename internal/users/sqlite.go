package users

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFile is the filename of the SQLite user database.
const DBFile = "users.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore keeps the user collection in a SQLite table. Save replaces
// the table contents inside one transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) dataDir/users.db and runs migrations.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("users: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("users: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("users: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("users: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			position   INTEGER PRIMARY KEY,
			username   TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			cellphone  TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL
		);
	`)
	return err
}

// Load returns every user in registration order.
func (s *SQLiteStore) Load() ([]User, error) {
	rows, err := s.db.Query(`
		SELECT username, password, cellphone, first_name, last_name
		FROM users ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("users: query: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Username, &u.Password, &u.Cellphone, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: rows: %w", err)
	}
	return out, nil
}

// Save atomically replaces the stored collection with users.
func (s *SQLiteStore) Save(users []User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("users: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("users: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO users (position, username, password, cellphone, first_name, last_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("users: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range users {
		if _, err := stmt.Exec(i, u.Username, u.Password, u.Cellphone, u.FirstName, u.LastName); err != nil {
			return fmt.Errorf("users: insert %q: %w", u.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("users: commit: %w", err)
	}
	return nil
}
