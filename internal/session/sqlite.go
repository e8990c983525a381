package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fortio.org/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zephyrtronium/linecalc"
)

// SQLStore stores a session in an SQLite database.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		last TEXT,
		last_text TEXT NOT NULL DEFAULT '',
		saved_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS session_lines (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		PRIMARY KEY (session_id, idx)
	)`,
	`CREATE TABLE IF NOT EXISTS session_variables (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (session_id, idx)
	)`,
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &SQLStore{db: db}, nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Values are stored as text so that NaN and infinities survive.
func formatValue(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Load returns the most recently saved session.
func (s *SQLStore) Load(ctx context.Context) (*Session, error) {
	var (
		id, text string
		last     sql.NullString
	)
	row := s.db.QueryRowContext(ctx, `SELECT id, last, last_text FROM sessions ORDER BY saved_at DESC LIMIT 1`)
	if err := row.Scan(&id, &last, &text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("couldn't load session: %w", err)
	}
	r := &Session{LastText: text}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session has invalid id %q: %w", id, err)
	}
	if last.Valid {
		x, err := strconv.ParseFloat(last.String, 64)
		if err != nil {
			log.Warnf("session %v: dropping malformed last result %q", r.ID, last.String)
		} else {
			r.Last = &x
		}
	}

	lines, err := s.db.QueryContext(ctx, `SELECT input, output FROM session_lines WHERE session_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("couldn't load session lines: %w", err)
	}
	defer lines.Close()
	for lines.Next() {
		var l Line
		if err := lines.Scan(&l.Input, &l.Output); err != nil {
			return nil, fmt.Errorf("couldn't load session lines: %w", err)
		}
		r.Lines = append(r.Lines, l)
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("couldn't load session lines: %w", err)
	}

	vars, err := s.db.QueryContext(ctx, `SELECT name, value FROM session_variables WHERE session_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("couldn't load session variables: %w", err)
	}
	defer vars.Close()
	for vars.Next() {
		var name, value string
		if err := vars.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("couldn't load session variables: %w", err)
		}
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warnf("session %v: dropping malformed variable %s = %q", r.ID, name, value)
			continue
		}
		r.Variables = append(r.Variables, linecalc.Binding{Name: name, Value: x})
	}
	if err := vars.Err(); err != nil {
		return nil, fmt.Errorf("couldn't load session variables: %w", err)
	}
	log.LogVf("loaded session %v from database", r.ID)
	return r, nil
}

// Save replaces the stored session with sess.
func (s *SQLStore) Save(ctx context.Context, sess *Session) error {
	ensureID(sess)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("couldn't begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := clearAll(ctx, tx); err != nil {
		return err
	}
	id := sess.ID.String()
	var last sql.NullString
	if sess.Last != nil {
		last = sql.NullString{String: formatValue(*sess.Last), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO sessions (id, last, last_text, saved_at) VALUES (?, ?, ?, ?)`, id, last, sess.LastText, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("couldn't save session: %w", err)
	}
	for i, l := range sess.Lines {
		_, err := tx.ExecContext(ctx, `INSERT INTO session_lines (session_id, idx, input, output) VALUES (?, ?, ?, ?)`, id, i, l.Input, l.Output)
		if err != nil {
			return fmt.Errorf("couldn't save session line %d: %w", i, err)
		}
	}
	for i, b := range sess.Variables {
		_, err := tx.ExecContext(ctx, `INSERT INTO session_variables (session_id, idx, name, value) VALUES (?, ?, ?, ?)`, id, i, b.Name, formatValue(b.Value))
		if err != nil {
			return fmt.Errorf("couldn't save variable %s: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("couldn't commit session: %w", err)
	}
	log.LogVf("saved session %v to database", sess.ID)
	return nil
}

// Clear removes all stored sessions.
func (s *SQLStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("couldn't begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := clearAll(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearAll(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"session_variables", "session_lines", "sessions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("couldn't clear %s: %w", table, err)
		}
	}
	return nil
}
