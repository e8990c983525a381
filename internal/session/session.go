// Package session persists calculator sessions: the lines of a sheet, its
// variables, and its last result.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zephyrtronium/linecalc"
)

// ErrNoSession is returned by Store.Load when nothing is stored.
var ErrNoSession = errors.New("no stored session")

// Line is an input line and its result or error text.
type Line struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Session is a stored sheet.
type Session struct {
	// ID identifies the session. Stores assign one if it is uuid.Nil.
	ID uuid.UUID
	// Lines are the sheet's lines in order.
	Lines []Line
	// Variables are the initialized variables in declaration order.
	Variables []linecalc.Binding
	// Last is the last result, or nil if there is none.
	Last *float64
	// LastText is the clipboard text of the last result.
	LastText string
}

// New creates an empty session with a fresh ID.
func New() *Session {
	return &Session{ID: uuid.New()}
}

// Env returns the environment part of the session.
func (s *Session) Env() linecalc.Session {
	return linecalc.Session{Variables: s.Variables, Last: s.Last}
}

// SetEnv replaces the environment part of the session.
func (s *Session) SetEnv(e linecalc.Session) {
	s.Variables = e.Variables
	s.Last = e.Last
}

// Store is durable storage for a single session.
type Store interface {
	// Load returns the stored session, or ErrNoSession.
	Load(ctx context.Context) (*Session, error)
	// Save replaces the stored session with s.
	Save(ctx context.Context, s *Session) error
	// Clear removes the stored session.
	Clear(ctx context.Context) error
}

func ensureID(s *Session) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
}
