package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/pterm/pterm"

	"github.com/zephyrtronium/linecalc"
	"github.com/zephyrtronium/linecalc/internal/options"
	"github.com/zephyrtronium/linecalc/internal/session"
	"github.com/zephyrtronium/linecalc/internal/sheet"
)

func main() {
	var (
		cfgname, store, sessname string
		lang, level              string
		base                     int
		nocolor, nan             bool
	)
	flag.StringVar(&cfgname, "config", defaultConfig(), "TOML configuration file")
	flag.StringVar(&store, "store", "", `session store: "file", "sqlite", or "none" (default from config)`)
	flag.StringVar(&sessname, "session", "", "session file or database (default from config)")
	flag.IntVar(&base, "base", 0, "output base, 2 to 36; anything else is decimal")
	flag.StringVar(&lang, "lang", "", "message language, e.g. en or de (default from config)")
	flag.StringVar(&level, "loglevel", "", "log level, e.g. info or verbose (default from config)")
	flag.BoolVar(&nocolor, "nocolor", false, "disable colored output")
	flag.BoolVar(&nan, "nan", false, "treat NaN results as errors")
	flag.Parse()

	cfg, err := options.Load(cfgname)
	if err != nil {
		log.Fatalf("%v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store.Kind = store
		case "session":
			cfg.Store.Path = sessname
		case "base":
			cfg.Options.Base = options.SanitizeBase(base)
		case "lang":
			cfg.Lang = lang
		case "loglevel":
			cfg.Log.Level = level
		case "nan":
			cfg.RejectNaN = nan
		}
	})
	if err := log.SetLogLevelStr(cfg.Log.Level); err != nil {
		log.Warnf("bad log level %q: %v", cfg.Log.Level, err)
	}
	if nocolor {
		pterm.DisableColor()
	}

	sh := sheet.New(cfg)
	if flag.NArg() > 0 {
		code := 0
		for _, arg := range flag.Args() {
			out := sh.Submit(arg)
			printOutput(sh, out)
			if out.Status == linecalc.StatusError {
				code = 1
			}
		}
		os.Exit(code)
	}

	ctx := context.Background()
	st, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer()
	repl(ctx, &console{sh: sh, st: st, cfg: cfg, cfgname: cfgname})
}

func defaultConfig() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "linecalc.toml"
	}
	return filepath.Join(dir, "linecalc", "linecalc.toml")
}

// openStore opens the configured session store. The store is nil if
// sessions are not stored.
func openStore(ctx context.Context, cfg options.StoreConfig) (session.Store, func(), error) {
	nop := func() {}
	switch cfg.Kind {
	case "file":
		return &session.FileStore{Path: cfg.Path}, nop, nil
	case "sqlite":
		db, err := session.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nop, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				log.Errf("closing session database: %v", err)
			}
		}, nil
	case "none", "":
		return nil, nop, nil
	default:
		return nil, nop, fmt.Errorf("unknown session store %q", cfg.Kind)
	}
}

// printOutput prints the result of one line.
func printOutput(sh *sheet.Sheet, out linecalc.Output) {
	switch out.Status {
	case linecalc.StatusOK:
		pterm.FgLightGreen.Println("= " + out.Display)
	case linecalc.StatusError:
		pterm.FgRed.Println(linecalc.Sprint(sh.Lang(), linecalc.KeyError, out.Display))
	}
}
