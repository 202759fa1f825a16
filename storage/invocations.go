package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("invocation not found")

// Invocation is one recorded run of the archive tool
type Invocation struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	BatchID      string    `json:"batchId"`
	FilePath     string    `json:"filePath"`
	CommandLine  string    `json:"commandLine"`
	ExitCode     int       `json:"exitCode"`
	DurationMs   int64     `json:"durationMs"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// SaveInvocation saves an invocation to the database
func (db *DB) SaveInvocation(inv *Invocation) error {
	query := `
		INSERT INTO invocations (
			batch_id, file_path, command_line, exit_code, duration_ms, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var errorMessage sql.NullString
	if inv.ErrorMessage != "" {
		errorMessage = sql.NullString{String: inv.ErrorMessage, Valid: true}
	}

	result, err := db.conn.Exec(query,
		inv.BatchID, inv.FilePath, inv.CommandLine, inv.ExitCode, inv.DurationMs, inv.Success, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save invocation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	inv.ID = id
	return nil
}

// GetInvocations retrieves invocations with pagination, newest first
func (db *DB) GetInvocations(limit, offset int) ([]Invocation, error) {
	query := `
		SELECT id, timestamp, batch_id, file_path, command_line, exit_code, duration_ms, success, error_message
		FROM invocations
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`
	return db.queryInvocations(query, limit, offset)
}

// GetBatch retrieves the invocations of one batch in run order
func (db *DB) GetBatch(batchID string) ([]Invocation, error) {
	query := `
		SELECT id, timestamp, batch_id, file_path, command_line, exit_code, duration_ms, success, error_message
		FROM invocations
		WHERE batch_id = ?
		ORDER BY id ASC
	`
	return db.queryInvocations(query, batchID)
}

func (db *DB) queryInvocations(query string, args ...any) ([]Invocation, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	var invocations []Invocation
	for rows.Next() {
		var inv Invocation
		var errorMessage sql.NullString

		err := rows.Scan(
			&inv.ID, &inv.Timestamp, &inv.BatchID, &inv.FilePath, &inv.CommandLine,
			&inv.ExitCode, &inv.DurationMs, &inv.Success, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}

		if errorMessage.Valid {
			inv.ErrorMessage = errorMessage.String
		}

		invocations = append(invocations, inv)
	}

	return invocations, rows.Err()
}

// DeleteInvocation deletes an invocation by ID
func (db *DB) DeleteInvocation(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM invocations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invocation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetInvocationCount returns the total number of invocations
func (db *DB) GetInvocationCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM invocations").Scan(&count)
	return count, err
}
