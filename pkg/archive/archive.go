// Package archive persists transcripts of removed sessions to SQLite.
// Live sessions stay in memory; the archive is a write-only audit record.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/edi/docchat/pkg/chat"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcript_messages (
	session_id  TEXT NOT NULL,
	source_name TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	role        TEXT NOT NULL,
	content     TEXT NOT NULL,
	sent_at     TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_transcript_session ON transcript_messages(session_id);
`

// Archiver writes session transcripts to a local SQLite database.
type Archiver struct {
	db *sql.DB
}

// New opens (creating if needed) the archive database at the given path.
func New(path string) (*Archiver, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	log.Info().Str("path", path).Msg("Transcript archive opened")

	return &Archiver{db: db}, nil
}

// Archive writes every message of the transcript in order. Archiving an
// empty transcript is a no-op.
func (a *Archiver) Archive(ctx context.Context, transcript chat.Transcript) error {
	if len(transcript.Messages) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO transcript_messages
			(session_id, source_name, seq, role, content, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range transcript.Messages {
		if _, err := stmt.ExecContext(ctx,
			transcript.ID, transcript.SourceName, i, msg.Role, msg.Content, msg.Timestamp,
		); err != nil {
			return fmt.Errorf("failed to archive message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	log.Debug().
		Str("session_id", transcript.ID).
		Int("messages", len(transcript.Messages)).
		Msg("Transcript archived")

	return nil
}

// MessageCount returns the number of archived messages for a session.
func (a *Archiver) MessageCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transcript_messages WHERE session_id = ?`, sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count archived messages: %w", err)
	}
	return count, nil
}

// Close closes the archive database.
func (a *Archiver) Close() error {
	return a.db.Close()
}
