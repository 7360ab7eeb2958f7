package db

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrInvalidSnapshot = errors.New("invalid database snapshot")

var sqliteHeader = []byte("SQLite format 3\x00")

// ValidateSnapshot checks that data is a readable SQLite database before it
// is allowed to replace a user's ledger file. The bytes are written to a
// temp file and opened read-only; a snapshot that cannot answer a trivial
// catalog query is rejected.
func ValidateSnapshot(data []byte) error {
	if len(data) < len(sqliteHeader) || !bytes.HasPrefix(data, sqliteHeader) {
		return ErrInvalidSnapshot
	}
	tmp, err := os.CreateTemp("", "snapshot-*.db")
	if err != nil {
		return fmt.Errorf("stage snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("stage snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage snapshot: %w", err)
	}

	conn, err := sqlx.Connect("sqlite", fmt.Sprintf("file:%s?mode=ro", tmp.Name()))
	if err != nil {
		return ErrInvalidSnapshot
	}
	defer conn.Close()

	// an empty catalog is still a readable database
	var name string
	if err := conn.Get(&name, "SELECT name FROM sqlite_master LIMIT 1"); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidSnapshot
	}
	return nil
}
