// Package options holds the calculator host options and the configuration
// file they are loaded from.
package options

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"fortio.org/log"
	"github.com/pelletier/go-toml"

	"github.com/zephyrtronium/linecalc"
)

// Options are the host options which inline directives and the user change.
// Zero values are the defaults.
type Options struct {
	// Textarea selects a multi-line input box.
	Textarea bool `toml:"textarea"`
	// Clipboard copies each result to the clipboard.
	Clipboard bool `toml:"clipboard"`
	// Accordion collapses the option panels.
	Accordion bool `toml:"accordion"`
	// Store saves the session after every line.
	Store bool `toml:"store"`
	// InputMode is the mode toggled by ! and ?.
	InputMode bool `toml:"input-mode"`
	// Cols and Rows are the input box size. Non-positive means the default.
	Cols int `toml:"cols"`
	Rows int `toml:"rows"`
	// Base is the output radix. Non-positive means decimal; positive values
	// outside 2 to 36 are kept but also mean decimal.
	Base int `toml:"base"`
}

// Size returns the input box size as columns and rows.
func (o *Options) Size() [2]int {
	return [2]int{o.Cols, o.Rows}
}

// SetSize sets the input box size from columns and rows.
func (o *Options) SetSize(size [2]int) {
	size = SanitizeSize(size)
	o.Cols, o.Rows = size[0], size[1]
}

// Apply applies an inline directive and returns the resulting changes.
func (o *Options) Apply(d linecalc.Directive) Changes {
	old := *o
	switch d.Kind {
	case linecalc.TokenInputMode:
		o.InputMode = d.InputMode
	case linecalc.TokenSize:
		o.SetSize(d.Size)
	case linecalc.TokenBase:
		o.Base = SanitizeBase(d.Base)
	default:
		panic("options: not a directive: " + d.Kind.String())
	}
	return Diff(&old, o)
}

// SanitizeSize replaces non-positive dimensions with 0.
func SanitizeSize(size [2]int) [2]int {
	for i, n := range size {
		if n < 0 {
			size[i] = 0
		}
	}
	return size
}

// IsDefaultSize returns whether neither dimension is set.
func IsDefaultSize(size [2]int) bool {
	return size[0] <= 0 && size[1] <= 0
}

// SizeText formats a size as "cols:rows", with unset dimensions as 0.
func SizeText(size [2]int) string {
	size = SanitizeSize(size)
	return strconv.Itoa(size[0]) + ":" + strconv.Itoa(size[1])
}

// SanitizeBase replaces a non-positive base with 0.
func SanitizeBase(base int) int {
	if base < 0 {
		return 0
	}
	return base
}

// IsDefaultBase returns whether base means decimal output without a base
// note.
func IsDefaultBase(base int) bool {
	return base <= 0
}

// BaseText formats a base for display, or the empty string if results are
// decimal.
func BaseText(base int) string {
	if !linecalc.IsBase(base) {
		return ""
	}
	return strconv.Itoa(base)
}

// Config is the content of the configuration file.
type Config struct {
	// Lang is the BCP 47 language of messages.
	Lang string `toml:"lang"`
	// RejectNaN makes NaN results errors.
	RejectNaN bool `toml:"reject-nan"`
	// History is the line editor history file. Relative paths are relative
	// to the user's home directory.
	History string `toml:"history"`

	Options Options     `toml:"options"`
	Store   StoreConfig `toml:"store"`
	Log     LogConfig   `toml:"log"`
}

// StoreConfig selects where sessions are stored.
type StoreConfig struct {
	// Kind is "file", "sqlite", or "none".
	Kind string `toml:"kind"`
	// Path is the session file or database.
	Path string `toml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a fortio.org/log level name, e.g. "info" or "verbose".
	Level string `toml:"level"`
}

// Default returns the configuration used when there is no file.
func Default() Config {
	return Config{
		Lang:    "en",
		History: ".linecalc_history",
		Store:   StoreConfig{Kind: "file", Path: "linecalc-session.yaml"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads a configuration file. Settings missing from the file keep their
// defaults. A file that does not exist yields the defaults and no error.
func Load(path string) (Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.LogVf("no config file at %s, using defaults", path)
			return Default(), nil
		}
		return Default(), err
	}
	var cfg Config
	if err := toml.Unmarshal(buff, &cfg); err != nil {
		return Default(), fmt.Errorf("couldn't parse config %s: %w", path, err)
	}
	cfg.fill(Default())
	cfg.Options.SetSize(cfg.Options.Size())
	cfg.Options.Base = SanitizeBase(cfg.Options.Base)
	log.Infof("loaded config from %s", path)
	return cfg, nil
}

// fill replaces empty strings with their values in def.
func (cfg *Config) fill(def Config) {
	for _, f := range []struct{ v, d *string }{
		{&cfg.Lang, &def.Lang},
		{&cfg.History, &def.History},
		{&cfg.Store.Kind, &def.Store.Kind},
		{&cfg.Store.Path, &def.Store.Path},
		{&cfg.Log.Level, &def.Log.Level},
	} {
		if *f.v == "" {
			*f.v = *f.d
		}
	}
}

// Save writes a configuration file.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("couldn't create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create config %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("couldn't encode config %s: %w", path, err)
	}
	return f.Close()
}
