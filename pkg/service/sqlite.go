package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/go-go-golems/scholar/pkg/client"
)

// SQLiteStore keeps sessions and records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// one writer; avoids SQLITE_BUSY between the handlers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "enabling WAL mode")
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}

	log.Info().Str("path", path).Msg("SQLite store initialized")
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			last_active TEXT NOT NULL,
			total_messages INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			subject TEXT NOT NULL,
			ai_model_used TEXT NOT NULL,
			sources TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_messages_session
			ON chat_messages(session_id, timestamp);
	`)
	return err
}

// Fixed width so that text ordering is time ordering.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func (s *SQLiteStore) CreateSession(ctx context.Context, now time.Time) (*client.SessionRecord, error) {
	ret := &client.SessionRecord{
		ID:         uuid.NewString(),
		CreatedAt:  client.Timestamp{Time: now.UTC()},
		LastActive: client.Timestamp{Time: now.UTC()},
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, created_at, last_active, total_messages) VALUES (?, ?, ?, 0)`,
		ret.ID, formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "inserting session")
	}
	return ret, nil
}

func (s *SQLiteStore) AddRecord(ctx context.Context, rec *client.ChatRecord) error {
	sources := rec.Sources
	if sources == nil {
		sources = []client.SourceRecord{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return errors.Wrap(err, "encoding sources")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ts := formatTime(rec.Timestamp.Time)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_messages
			(id, session_id, user_message, ai_response, subject, ai_model_used, sources, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.SessionID, rec.UserMessage, rec.AIResponse,
		rec.Subject, rec.AIModelUsed, string(sourcesJSON), ts,
	)
	if err != nil {
		return errors.Wrap(err, "inserting record")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, created_at, last_active, total_messages) VALUES (?, ?, ?, 1)
			ON CONFLICT(id) DO UPDATE SET
				last_active = excluded.last_active,
				total_messages = chat_sessions.total_messages + 1`,
		rec.SessionID, ts, ts,
	)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}

	return errors.Wrap(tx.Commit(), "committing record")
}

func (s *SQLiteStore) Records(ctx context.Context, sessionID string) ([]client.ChatRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_message, ai_response, subject, ai_model_used, sources, timestamp
			FROM chat_messages WHERE session_id = ?
			ORDER BY timestamp, rowid LIMIT ?`,
		sessionID, MaxHistory,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	defer func() {
		_ = rows.Close()
	}()

	ret := []client.ChatRecord{}
	for rows.Next() {
		var (
			rec         client.ChatRecord
			id          string
			sourcesJSON string
			ts          string
		)
		if err := rows.Scan(&id, &rec.SessionID, &rec.UserMessage, &rec.AIResponse,
			&rec.Subject, &rec.AIModelUsed, &sourcesJSON, &ts); err != nil {
			return nil, errors.Wrap(err, "scanning record")
		}
		rec.ID = client.FlexibleID(id)
		if err := json.Unmarshal([]byte(sourcesJSON), &rec.Sources); err != nil {
			return nil, errors.Wrapf(err, "decoding sources of record %s", id)
		}
		t, err := client.ParseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		rec.Timestamp = client.Timestamp{Time: t}
		ret = append(ret, rec)
	}
	return ret, errors.Wrap(rows.Err(), "iterating records")
}

// Session returns a stored session.
func (s *SQLiteStore) Session(ctx context.Context, id string) (*client.SessionRecord, error) {
	var (
		ret                   client.SessionRecord
		createdAt, lastActive string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, last_active, total_messages FROM chat_sessions WHERE id = ?`, id,
	).Scan(&ret.ID, &createdAt, &lastActive, &ret.TotalMessages)
	if err != nil {
		return nil, errors.Wrapf(err, "loading session %s", id)
	}
	if ret.CreatedAt.Time, err = client.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if ret.LastActive.Time, err = client.ParseTimestamp(lastActive); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
