package options

import "sort"

// Change is the new state of one option. A nil Value means the option was
// reset to its default.
type Change struct {
	Value any `yaml:"value,omitempty" json:"value,omitempty"`
}

// Changes maps option names to their changes. Front ends exchange Changes to
// keep their options synchronized.
type Changes map[string]Change

// Names returns the changed option names in lexical order.
func (c Changes) Names() []string {
	r := make([]string, 0, len(c))
	for k := range c {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Option names used in Changes.
const (
	NameTextarea  = "textarea"
	NameClipboard = "clipboard"
	NameAccordion = "accordion"
	NameStore     = "store"
	NameInputMode = "inputMode"
	NameSize      = "size"
	NameBase      = "base"
)

// values returns the options which differ from their defaults.
func (o *Options) values() map[string]any {
	m := make(map[string]any)
	if o.Textarea {
		m[NameTextarea] = true
	}
	if o.Clipboard {
		m[NameClipboard] = true
	}
	if o.Accordion {
		m[NameAccordion] = true
	}
	if o.Store {
		m[NameStore] = true
	}
	if o.InputMode {
		m[NameInputMode] = true
	}
	if size := o.Size(); !IsDefaultSize(size) {
		m[NameSize] = SanitizeSize(size)
	}
	if !IsDefaultBase(o.Base) {
		m[NameBase] = o.Base
	}
	return m
}

// setValues replaces o with the options in m. Values of the wrong type and
// unknown names are ignored.
func (o *Options) setValues(m map[string]any) {
	var n Options
	n.Textarea, _ = m[NameTextarea].(bool)
	n.Clipboard, _ = m[NameClipboard].(bool)
	n.Accordion, _ = m[NameAccordion].(bool)
	n.Store, _ = m[NameStore].(bool)
	n.InputMode, _ = m[NameInputMode].(bool)
	switch size := m[NameSize].(type) {
	case [2]int:
		n.SetSize(size)
	case []int:
		if len(size) == 2 {
			n.SetSize([2]int{size[0], size[1]})
		}
	case []any:
		// decoded from yaml
		if len(size) == 2 {
			c, _ := size[0].(int)
			r, _ := size[1].(int)
			n.SetSize([2]int{c, r})
		}
	}
	if base, ok := m[NameBase].(int); ok {
		n.Base = SanitizeBase(base)
	}
	*o = n
}

// Diff computes the changes which turn old into new. The result is nil if
// there are none.
func Diff(old, new *Options) Changes {
	ov, nv := old.values(), new.values()
	var c Changes
	for k := range ov {
		if _, ok := nv[k]; !ok {
			if c == nil {
				c = make(Changes)
			}
			c[k] = Change{}
		}
	}
	for k, v := range nv {
		if w, ok := ov[k]; ok && w == v {
			continue
		}
		if c == nil {
			c = make(Changes)
		}
		c[k] = Change{Value: v}
	}
	return c
}

// ApplyChanges applies changes to o and returns whether anything changed.
func (o *Options) ApplyChanges(c Changes) bool {
	m := o.values()
	changed := false
	for k, ch := range c {
		if ch.Value != nil {
			if w, ok := m[k]; !ok || w != ch.Value {
				changed = true
				m[k] = ch.Value
			}
			continue
		}
		if _, ok := m[k]; ok {
			changed = true
			delete(m, k)
		}
	}
	if changed {
		o.setValues(m)
	}
	return changed
}
