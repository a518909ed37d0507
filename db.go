package main

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// InitDB opens the transfer log database. The log is an append-only history
// of upload, download and delete operations; the registry itself is never
// persisted here and is always rebuilt from the upload directory.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		file_id TEXT NOT NULL DEFAULT '',
		file_name TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transfers_created_at ON transfers(created_at);
	`

	_, err = db.Exec(schema)
	return err
}

// TransferEvent is one row of the operation history.
type TransferEvent struct {
	Operation string    `json:"operation"`
	FileID    string    `json:"fileId"`
	FileName  string    `json:"fileName"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogTransfer appends an event to the history. The log is advisory; callers
// treat failures as non-fatal and never put them on the response path.
func LogTransfer(operation, fileID, fileName string, size int64) error {
	_, err := db.Exec(
		"INSERT INTO transfers (operation, file_id, file_name, size, created_at) VALUES (?, ?, ?, ?, ?)",
		operation, fileID, fileName, size, time.Now().UTC(),
	)
	return err
}

// RecentTransfers returns the newest events, most recent first.
func RecentTransfers(limit int) ([]TransferEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := db.Query(
		"SELECT operation, file_id, file_name, size, created_at FROM transfers ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TransferEvent
	for rows.Next() {
		var ev TransferEvent
		if err := rows.Scan(&ev.Operation, &ev.FileID, &ev.FileName, &ev.Size, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func CloseDB() {
	if db != nil {
		db.Close()
	}
}
