package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"
	"github.com/pterm/pterm"

	"github.com/zephyrtronium/linecalc"
	"github.com/zephyrtronium/linecalc/internal/options"
	"github.com/zephyrtronium/linecalc/internal/session"
	"github.com/zephyrtronium/linecalc/internal/sheet"
)

const help = `:copy            print the last result
:all             print all lines
:line N          make line N (from 1) the next line to replace
:try EXPR        calculate without changing anything
:clear           remove all lines and variables
:clear last      forget the last result
:store           save the session
:restore         load the saved session
:forget          delete the saved session
:vars            list variables
:options         list options
:options save    write the options to the config file
:options reload  read the options from the config file
:quit            exit`

func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

// console is the state of the interactive front end.
type console struct {
	sh      *sheet.Sheet
	st      session.Store
	cfg     options.Config
	cfgname string
}

func repl(ctx context.Context, con *console) {
	sh, st := con.sh, con.st
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath(con.cfg.History)
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				log.Warnf("couldn't save history: %v", err)
				return
			}
			ln.WriteHistory(f)
			f.Close()
		}()
	}

	if sh.Options.Store && st != nil {
		restore(ctx, sh, st)
	}
	sh.OnChange = func(c options.Changes) {
		for _, name := range c.Names() {
			if v := c[name].Value; v != nil {
				pterm.Info.Printfln("%s = %v", name, v)
			} else {
				pterm.Info.Printfln("%s reset", name)
			}
		}
	}

	for {
		line, err := ln.Prompt(prompt(sh))
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				log.Errf("reading input: %v", err)
			}
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if cmd := strings.TrimSpace(line); strings.HasPrefix(cmd, ":") {
			if !con.command(ctx, cmd) {
				return
			}
			continue
		}
		out := sh.Submit(line)
		printOutput(sh, out)
		if sh.Options.Clipboard && out.Status == linecalc.StatusOK {
			copyText(out.Copy)
		}
		if sh.Options.Store && st != nil {
			if err := sh.Save(ctx, st); err != nil {
				pterm.Error.Println(err)
			}
		}
	}
}

func prompt(sh *sheet.Sheet) string {
	p := ""
	if b := options.BaseText(sh.Options.Base); b != "" {
		p = "[" + b + "]"
	}
	if sh.Options.InputMode {
		return p + "! "
	}
	return p + "> "
}

// command runs a colon command. It returns false to quit.
func (con *console) command(ctx context.Context, line string) bool {
	sh, st := con.sh, con.st
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return false
	case ":copy":
		pterm.FgLightCyan.Println(sh.LastText())
		copyText(sh.LastText())
	case ":all":
		pterm.FgLightCyan.Print(sh.Text())
		copyText(sh.Text())
	case ":line":
		n, err := strconv.Atoi(arg)
		if err != nil {
			pterm.Error.Printfln("bad line number %q", arg)
			break
		}
		sh.Seek(n - 1)
		pterm.Info.Printfln("next line replaces line %d of %d", sh.Cursor()+1, len(sh.Lines()))
	case ":try":
		printOutput(sh, sh.Preview(arg))
	case ":clear":
		if strings.EqualFold(arg, "last") {
			sh.ForgetLast()
			pterm.Info.Println("last result forgotten")
			break
		}
		sh.Clear()
		pterm.Info.Println("cleared")
	case ":store", ":restore", ":forget":
		if st == nil {
			pterm.Warning.Println("no session store configured")
			break
		}
		switch cmd {
		case ":store":
			if err := sh.Save(ctx, st); err != nil {
				pterm.Error.Println(err)
				break
			}
			pterm.Success.Println("session saved")
		case ":restore":
			restore(ctx, sh, st)
		case ":forget":
			if err := st.Clear(ctx); err != nil {
				pterm.Error.Println(err)
				break
			}
			pterm.Success.Println("session deleted")
		}
	case ":vars":
		data := pterm.TableData{{"name", "value"}}
		for _, b := range sh.Env().Export() {
			data = append(data, []string{b.Name, linecalc.Format(b.Value, 0).Copy})
		}
		if last, ok := sh.Env().Last(); ok {
			data = append(data, []string{"#", linecalc.Format(last, 0).Copy})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case ":options":
		switch strings.ToLower(arg) {
		case "save":
			con.cfg.Options = sh.Options
			if err := options.Save(con.cfgname, con.cfg); err != nil {
				pterm.Error.Println(err)
				break
			}
			pterm.Success.Printfln("options saved to %s", con.cfgname)
			return true
		case "reload":
			cfg, err := options.Load(con.cfgname)
			if err != nil {
				pterm.Error.Println(err)
				break
			}
			if !sh.ApplyChanges(options.Diff(&sh.Options, &cfg.Options)) {
				pterm.Info.Println("options unchanged")
			}
			return true
		}
		o := sh.Options
		data := pterm.TableData{
			{"option", "value"},
			{options.NameInputMode, strconv.FormatBool(o.InputMode)},
			{options.NameSize, options.SizeText(o.Size())},
			{options.NameBase, options.BaseText(o.Base)},
			{options.NameTextarea, strconv.FormatBool(o.Textarea)},
			{options.NameClipboard, strconv.FormatBool(o.Clipboard)},
			{options.NameAccordion, strconv.FormatBool(o.Accordion)},
			{options.NameStore, strconv.FormatBool(o.Store)},
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	default:
		pterm.Println(help)
	}
	return true
}

func restore(ctx context.Context, sh *sheet.Sheet, st session.Store) {
	n := len(sh.Lines())
	err := sh.Load(ctx, st)
	switch {
	case errors.Is(err, session.ErrNoSession):
		pterm.Info.Println("no saved session")
	case err != nil:
		pterm.Error.Println(err)
	default:
		printLinesSince(sh, n)
	}
}

// copyText sets the terminal's clipboard with an OSC 52 sequence.
func copyText(s string) {
	fmt.Fprint(os.Stdout, "\x1b]52;c;"+base64.StdEncoding.EncodeToString([]byte(s))+"\a")
}

func printLinesSince(sh *sheet.Sheet, i int) {
	for _, l := range sh.Lines()[i:] {
		pterm.Println(l.Input)
		pterm.FgLightGreen.Println("= " + l.Output)
	}
}
