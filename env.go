package linecalc

// Env holds the variables and the last result of a calculator session. The
// zero value is an empty environment ready to use. An Env is not safe for
// concurrent use.
type Env struct {
	// names is the variable names in order of first declaration.
	names []string
	vars  map[string]slot

	last    float64
	hasLast bool
}

type slot struct {
	x   float64
	set bool
}

// Binding is a variable name and its value.
type Binding struct {
	Name  string  `yaml:"name" toml:"name"`
	Value float64 `yaml:"value" toml:"value"`
}

// Session is the persistable content of an Env.
type Session struct {
	// Variables is the numeric variables in declaration order.
	Variables []Binding
	// Last is the last result, or nil if there is none.
	Last *float64
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]slot)}
}

// declare adds an uninitialized variable if name is not yet known.
func (e *Env) declare(name string) {
	if _, ok := e.vars[name]; ok {
		return
	}
	if e.vars == nil {
		e.vars = make(map[string]slot)
	}
	e.names = append(e.names, name)
	e.vars[name] = slot{}
}

// Lookup returns the value of a variable. The result is false if the variable
// is unknown or has never been assigned.
func (e *Env) Lookup(name string) (float64, bool) {
	s := e.vars[name]
	return s.x, s.set
}

// Declared returns whether name has been seen as a variable, whether or not
// it has a value.
func (e *Env) Declared(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Set assigns a variable, declaring it if necessary. The only error is a
// *BuiltinError when name is a built-in function or constant.
func (e *Env) Set(name string, x float64) error {
	if Builtin(name) {
		return &BuiltinError{Name: name}
	}
	e.declare(name)
	e.vars[name] = slot{x: x, set: true}
	return nil
}

// Names returns the names of all declared variables, including those without
// values, in declaration order.
func (e *Env) Names() []string {
	return append([]string(nil), e.names...)
}

// Last returns the last result. The result is false if there is none.
func (e *Env) Last() (float64, bool) {
	return e.last, e.hasLast
}

// SetLast sets the last result.
func (e *Env) SetLast(x float64) {
	e.last, e.hasLast = x, true
}

// ClearLast removes the last result.
func (e *Env) ClearLast() {
	e.last, e.hasLast = 0, false
}

// Clone creates an independent copy of e.
func (e *Env) Clone() *Env {
	n := Env{
		names:   append([]string(nil), e.names...),
		vars:    make(map[string]slot, len(e.vars)),
		last:    e.last,
		hasLast: e.hasLast,
	}
	for k, v := range e.vars {
		n.vars[k] = v
	}
	return &n
}

// Export returns the variables which have values, in declaration order.
func (e *Env) Export() []Binding {
	var r []Binding
	for _, name := range e.names {
		if s := e.vars[name]; s.set {
			r = append(r, Binding{Name: name, Value: s.x})
		}
	}
	return r
}

// Import assigns each binding in order. Bindings to built-in names are
// skipped; the result is the list of skipped names.
func (e *Env) Import(vars []Binding) []string {
	var skipped []string
	for _, b := range vars {
		if err := e.Set(b.Name, b.Value); err != nil {
			skipped = append(skipped, b.Name)
		}
	}
	return skipped
}

// ExportSession returns the variables and last result of e.
func (e *Env) ExportSession() Session {
	s := Session{Variables: e.Export()}
	if e.hasLast {
		x := e.last
		s.Last = &x
	}
	return s
}

// ImportSession imports the variables of s and sets the last result if s has
// one. The result is the list of skipped variable names.
func (e *Env) ImportSession(s Session) []string {
	if s.Last != nil {
		e.SetLast(*s.Last)
	}
	return e.Import(s.Variables)
}
