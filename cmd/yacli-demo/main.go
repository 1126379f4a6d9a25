// Command yacli-demo is a small standalone program that wires the engine
// up to a real terminal and registers a handful of sample commands,
// exercising the embedding API end to end: static and dynamic children, a
// submode, history, and the Ctrl-X introspection combos. It registers no
// custom filter; only the built-in filters are available.
//
// Grounded on gwcli's cmd/gwcli main wiring style (flag parsing up front,
// then handing a configured collaborator its own run loop) adapted to a
// single-process terminal session instead of a served application.
package main

import (
	"fmt"
	"os"

	"github.com/google/shlex"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	yacli "github.com/bbonev/yacli"
	"github.com/bbonev/yacli/reference"
	"github.com/bbonev/yacli/tree"
	"github.com/bbonev/yacli/yalog"
)

func main() {
	hostname := pflag.StringP("hostname", "H", "yacli-demo", "hostname shown in the prompt")
	banner := pflag.StringP("banner", "b", "yacli reference demo - type ? for help", "startup banner")
	verbose := pflag.BoolP("verbose", "v", false, "log engine diagnostics to stderr")
	pflag.Parse()

	term, err := reference.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "yacli-demo:", err)
		os.Exit(1)
	}
	defer term.Close()

	var logger yalog.Logger
	if *verbose {
		logger = yalog.NewWriter(yalog.INFO, func(line string) {
			fmt.Fprintln(os.Stderr, line)
		})
	}

	e := yacli.New(term,
		yacli.WithHostname(*hostname),
		yacli.WithBanner(*banner),
		yacli.WithLevelGlyph("> "),
		yacli.WithMore(true),
		yacli.WithMoreClear(false, false, false, false),
		yacli.WithCtrlZ(true),
		yacli.WithCtrlZExecutes(false),
		yacli.WithShowTerminalSize(false),
		yacli.WithLogger(logger),
	)

	registerCommands(e)

	e.SetCmdCB(func(line string, executed bool) {
		if logger != nil {
			logger.Infof("dispatched %q executed=%v", line, executed)
		}
	})
	e.SetCtrlZCB(func() {
		e.Message("^Z: leaving current level")
	})

	e.Start()
	e.DrawPrompt()

	for {
		k, err := term.ReadKey()
		if err != nil {
			break
		}
		switch e.Key(k) {
		case yacli.EOF, yacli.Error:
			e.Stop()
			e.Free()
			return
		default:
			if e.NeedsRedraw() {
				e.DrawPrompt()
			}
		}
	}
}

// registerCommands builds the demo tree: "show version"/"show users",
// a dynamic "show interface <id>" branch, a "history" command, a
// "configure" submode, and "exit".
func registerCommands(e *yacli.Engine) {
	root := e.RootNode()

	show, _ := e.AddCmd(root, "show", "display information", nil)
	e.AddCmd(show, "version", "print engine version", func(args []string) {
		e.Print("yacli-demo reference build\r\n")
	})
	e.AddCmd(show, "users", "list logged-in users", func(args []string) {
		e.Print("admin\r\nguest\r\n")
	})

	iface, _ := e.AddCmd(show, "interface", "show a named interface", nil)
	ifaceDyn, _ := e.AddCmd(iface, "@1", "interface name", func(args []string) {
		e.Print("%s: up, id=%s\r\n", args[len(args)-1], uuid.NewString())
	})
	e.SetListCB(func(t *tree.Tree, node *tree.Node, id int) {
		if node != ifaceDyn {
			return
		}
		for _, name := range []string{"eth0", "eth1", "lo"} {
			t.List(node, name)
		}
	})

	e.AddCmd(root, "history", "split the command line shell-style and print the words", func(args []string) {
		words, err := shlex.Split(e.BufGet())
		if err != nil {
			e.Print("history: %v\r\n", err)
			return
		}
		e.Print("parsed %d word(s): %v\r\n", len(words), words)
	})

	e.AddCmd(root, "configure", "enter configuration mode", func(args []string) {
		e.EnterMode("config", nil)
		cfgRoot := e.RootNode()
		e.AddCmd(cfgRoot, "exit", "leave configuration mode", func(args []string) {
			e.ExitMode()
		})
		e.AddCmd(cfgRoot, "hostname", "set the prompt hostname", func(args []string) {
			if len(args) < 2 {
				e.Print("usage: hostname <name>\r\n")
				return
			}
			e.Print("hostname set to %s\r\n", args[1])
		})
	})

	e.AddCmd(root, "exit", "end the session", func(args []string) {
		e.Exit()
	})
}
