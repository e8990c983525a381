package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fortio.org/log"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/linecalc"
)

// FileStore stores a session as a YAML document.
type FileStore struct {
	Path string
}

var _ Store = (*FileStore)(nil)

// fileDoc is the YAML form of a session. Variables are [name, value] pairs.
type fileDoc struct {
	ID        string   `yaml:"id"`
	Lines     []Line   `yaml:"lines,omitempty"`
	Variables [][]any  `yaml:"variables,omitempty"`
	Last      *float64 `yaml:"last,omitempty"`
	LastText  string   `yaml:"last-text,omitempty"`
}

// Load reads the session file.
func (f *FileStore) Load(ctx context.Context) (*Session, error) {
	buff, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var doc fileDoc
	if err := yaml.Unmarshal(buff, &doc); err != nil {
		return nil, fmt.Errorf("couldn't parse session %s: %w", f.Path, err)
	}
	s := &Session{
		Lines:    doc.Lines,
		Last:     doc.Last,
		LastText: doc.LastText,
	}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			log.Warnf("session %s has invalid id %q: %v", f.Path, doc.ID, err)
		}
		s.ID = id
	}
	for i, v := range doc.Variables {
		b, ok := binding(v)
		if !ok {
			log.Warnf("session %s: dropping malformed variable %d: %v", f.Path, i, v)
			continue
		}
		s.Variables = append(s.Variables, b)
	}
	ensureID(s)
	log.LogVf("loaded session %v from %s", s.ID, f.Path)
	return s, nil
}

// binding converts a [name, value] pair. The name must be a string and the
// value a number.
func binding(v []any) (linecalc.Binding, bool) {
	if len(v) != 2 {
		return linecalc.Binding{}, false
	}
	name, ok := v[0].(string)
	if !ok {
		return linecalc.Binding{}, false
	}
	switch x := v[1].(type) {
	case float64:
		return linecalc.Binding{Name: name, Value: x}, true
	case int:
		return linecalc.Binding{Name: name, Value: float64(x)}, true
	case int64:
		return linecalc.Binding{Name: name, Value: float64(x)}, true
	case uint64:
		return linecalc.Binding{Name: name, Value: float64(x)}, true
	default:
		return linecalc.Binding{}, false
	}
}

// Save writes the session file.
func (f *FileStore) Save(ctx context.Context, s *Session) error {
	ensureID(s)
	doc := fileDoc{
		ID:       s.ID.String(),
		Lines:    s.Lines,
		Last:     s.Last,
		LastText: s.LastText,
	}
	for _, b := range s.Variables {
		doc.Variables = append(doc.Variables, []any{b.Name, b.Value})
	}
	buff, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("couldn't encode session: %w", err)
	}
	if err := os.WriteFile(f.Path, buff, 0o644); err != nil {
		return fmt.Errorf("couldn't write session %s: %w", f.Path, err)
	}
	log.LogVf("saved session %v to %s", s.ID, f.Path)
	return nil
}

// Clear removes the session file.
func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
