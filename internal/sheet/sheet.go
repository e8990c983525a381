// Package sheet implements a calculator sheet: an ordered list of input lines
// and their results, sharing one environment.
package sheet

import (
	"context"
	"strings"

	"fortio.org/log"
	"golang.org/x/text/language"

	"github.com/zephyrtronium/linecalc"
	"github.com/zephyrtronium/linecalc/internal/options"
	"github.com/zephyrtronium/linecalc/internal/session"
)

// Sheet is a list of calculated lines. It is the linecalc.Host of its
// calculator, so inline directives change its Options.
type Sheet struct {
	// Options are the sheet's host options.
	Options options.Options
	// OnChange, if not nil, is called with the option changes caused by each
	// directive.
	OnChange func(options.Changes)

	calc     linecalc.Calculator
	lines    []session.Line
	cur      int
	lastText string
}

var _ linecalc.Host = (*Sheet)(nil)

// New creates an empty sheet configured by cfg.
func New(cfg options.Config) *Sheet {
	s := &Sheet{Options: cfg.Options}
	s.calc = linecalc.Calculator{
		Env:       linecalc.NewEnv(),
		Host:      s,
		RejectNaN: cfg.RejectNaN,
		Lang:      ParseLang(cfg.Lang),
	}
	return s
}

// ParseLang parses a language tag, falling back to English.
func ParseLang(tag string) language.Tag {
	t, err := language.Parse(tag)
	if err != nil {
		log.Warnf("unknown language %q, using English: %v", tag, err)
		return language.English
	}
	return t
}

// Directive applies an inline directive to the sheet's options.
func (s *Sheet) Directive(d linecalc.Directive) {
	ch := s.Options.Apply(d)
	if ch == nil {
		return
	}
	log.Infof("options changed by %s: %v", d.Text, ch)
	if s.OnChange != nil {
		s.OnChange(ch)
	}
}

// ApplyChanges applies option changes from another source, such as a
// reloaded config file, and reports them to OnChange. It returns whether
// anything changed.
func (s *Sheet) ApplyChanges(c options.Changes) bool {
	if !s.Options.ApplyChanges(c) {
		return false
	}
	log.Infof("options changed: %v", c)
	if s.OnChange != nil {
		s.OnChange(c)
	}
	return true
}

// previewHost gives a preview the sheet's base and ignores its directives.
type previewHost struct {
	base int
}

func (previewHost) Directive(linecalc.Directive) {}

func (h previewHost) Base() int {
	return h.base
}

// Preview calculates input against a copy of the sheet's environment. The
// sheet, its environment, and its options are unchanged.
func (s *Sheet) Preview(input string) linecalc.Output {
	calc := s.calc
	calc.Env = s.calc.Env.Clone()
	calc.Host = previewHost{base: s.Options.Base}
	return calc.Calculate(input)
}

// ForgetLast clears the last result and its clipboard text.
func (s *Sheet) ForgetLast() {
	s.calc.Env.ClearLast()
	s.lastText = ""
}

// Base returns the output base option.
func (s *Sheet) Base() int {
	return s.Options.Base
}

// Env returns the sheet's environment.
func (s *Sheet) Env() *linecalc.Env {
	return s.calc.Env
}

// Lang returns the language of the sheet's messages.
func (s *Sheet) Lang() language.Tag {
	return s.calc.Lang
}

// Lines returns a copy of the sheet's lines.
func (s *Sheet) Lines() []session.Line {
	return append([]session.Line(nil), s.lines...)
}

// Cursor returns the index of the line the next Submit replaces. It is
// len(Lines()) when the next Submit appends.
func (s *Sheet) Cursor() int {
	return s.cur
}

// Seek moves the cursor to line i, clamped to the valid range.
func (s *Sheet) Seek(i int) {
	s.cur = max(0, min(i, len(s.lines)))
}

// Submit calculates input as the line at the cursor. A result or error is
// stored as the line's output and the cursor advances. A line without an
// expression is removed.
func (s *Sheet) Submit(input string) linecalc.Output {
	out := s.calc.Calculate(input)
	switch out.Status {
	case linecalc.StatusEmpty:
		if s.cur < len(s.lines) {
			s.lines = append(s.lines[:s.cur], s.lines[s.cur+1:]...)
		}
		return out
	case linecalc.StatusOK:
		s.lastText = out.Copy
	}
	l := session.Line{Input: input, Output: out.Display}
	if s.cur < len(s.lines) {
		s.lines[s.cur] = l
	} else {
		s.lines = append(s.lines, l)
	}
	s.cur++
	return out
}

// LastText returns the clipboard text of the last successful result.
func (s *Sheet) LastText() string {
	return s.lastText
}

// Text returns all lines formatted for the clipboard.
func (s *Sheet) Text() string {
	var b strings.Builder
	for _, l := range s.lines {
		b.WriteString(l.Input)
		b.WriteString("\n= ")
		b.WriteString(l.Output)
		b.WriteByte('\n')
	}
	return b.String()
}

// Snapshot returns the sheet as a session.
func (s *Sheet) Snapshot() *session.Session {
	r := session.New()
	r.Lines = s.Lines()
	r.SetEnv(s.calc.Env.ExportSession())
	r.LastText = s.lastText
	return r
}

// Restore merges a stored session into the sheet. Its variables, last result,
// and last text are imported, and its lines are appended. A cursor on an
// existing line stays there; a cursor past the last line stays past the last
// line.
func (s *Sheet) Restore(r *session.Session) {
	if skipped := s.calc.Env.ImportSession(r.Env()); len(skipped) != 0 {
		log.Warnf("session %v: skipped built-in names %v", r.ID, skipped)
	}
	if r.LastText != "" {
		s.lastText = r.LastText
	}
	atEnd := s.cur == len(s.lines)
	s.lines = append(s.lines, r.Lines...)
	if atEnd {
		s.cur = len(s.lines)
	}
	log.Infof("restored session %v with %d lines and %d variables", r.ID, len(r.Lines), len(r.Variables))
}

// Clear removes all lines, variables, and the last result.
func (s *Sheet) Clear() {
	s.lines = nil
	s.cur = 0
	s.lastText = ""
	s.calc.Env = linecalc.NewEnv()
}

// Save stores a snapshot of the sheet.
func (s *Sheet) Save(ctx context.Context, st session.Store) error {
	return st.Save(ctx, s.Snapshot())
}

// Load restores the session in st. It returns session.ErrNoSession if there
// is none.
func (s *Sheet) Load(ctx context.Context, st session.Store) error {
	r, err := st.Load(ctx)
	if err != nil {
		return err
	}
	s.Restore(r)
	return nil
}
