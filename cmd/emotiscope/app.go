package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spacesedan/emotiscope/internal/analysis"
	"github.com/spacesedan/emotiscope/internal/history"
	"github.com/spacesedan/emotiscope/internal/monitoring"
	"github.com/spacesedan/emotiscope/internal/render"
)

const helpText = `Commands:
  <text>            analyze the text
  /analyze <text>   analyze the text
  /history          list recent analyses
  /show <n>         show analysis n from the history
  /stats            average scores across the history
  /clear            clear the screen
  /clear-history    delete the history
  /help             show this help
  /quit             exit
`

type app struct {
	service *analysis.Service
	store   *history.Store
	prober  monitoring.Prober

	in  *bufio.Scanner
	out io.Writer

	healthy atomic.Bool
}

func newApp(service *analysis.Service, prober monitoring.Prober, in io.Reader, out io.Writer) *app {
	a := &app{
		service: service,
		store:   service.History(),
		prober:  prober,
		in:      bufio.NewScanner(in),
		out:     out,
	}
	a.healthy.Store(true)
	return a
}

// run executes one subcommand and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.repl(ctx)
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "analyze":
		err = a.analyze(ctx, strings.Join(rest, " "))
	case "history":
		err = render.History(a.out, a.store.Items())
	case "show":
		if len(rest) != 1 {
			err = errors.New("usage: emotiscope show <n>")
			break
		}
		err = a.show(rest[0])
	case "stats":
		err = render.Stats(a.out, a.store.Items())
	case "clear":
		yes := len(rest) == 1 && (rest[0] == "-y" || rest[0] == "--yes")
		err = a.clearHistory(ctx, yes)
	case "repl":
		return a.repl(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usageText)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
		return 1
	}
	return 0
}

func (a *app) analyze(ctx context.Context, text string) error {
	if !a.healthy.Load() {
		fmt.Fprintln(a.out, "warning: analyzer looks unreachable, results may fall back to neutral")
	}

	res, err := a.service.Analyze(ctx, text)
	if err != nil {
		return err
	}
	if res.Source == analysis.SourceFallback {
		fmt.Fprintf(a.out, "analyzer unavailable (%s), showing neutral result\n", res.Failure.Kind)
	}
	return render.Result(a.out, res.Input, res.Result)
}

// show renders entry n, counted from 1 as listed by the history view.
func (a *app) show(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid entry number %q", arg)
	}
	item, err := a.store.Get(n - 1)
	if err != nil {
		return err
	}
	return render.Item(a.out, item)
}

func (a *app) clearHistory(ctx context.Context, yes bool) error {
	if a.store.Len() == 0 {
		fmt.Fprintln(a.out, "History is already empty.")
		return nil
	}
	if !yes && !a.confirm("Clear all history? [y/N] ") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "History cleared.")
	return nil
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(a.in.Text()))
	return answer == "y" || answer == "yes"
}

func (a *app) repl(ctx context.Context) int {
	if a.prober != nil {
		monitorCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go monitoring.MonitorAnalyzerHealth(monitorCtx, a.prober, &a.healthy)
	}

	fmt.Fprint(a.out, "emotiscope: type text to analyze, /help for commands\n")
	for {
		fmt.Fprint(a.out, "> ")
		if !a.in.Scan() {
			fmt.Fprintln(a.out)
			return 0
		}
		if ctx.Err() != nil {
			return 0
		}

		quit, err := a.dispatch(ctx, a.in.Text())
		if err != nil {
			fmt.Fprintln(a.out, "error:", err)
		}
		if quit {
			return 0
		}
	}
}

// dispatch handles one REPL line and reports whether the session should end.
func (a *app) dispatch(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, a.analyze(ctx, line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/analyze":
		if arg == "" {
			return false, analysis.ErrEmptyInput
		}
		return false, a.analyze(ctx, arg)
	case "/history":
		return false, render.History(a.out, a.store.Items())
	case "/show":
		return false, a.show(arg)
	case "/stats":
		return false, render.Stats(a.out, a.store.Items())
	case "/clear":
		fmt.Fprint(a.out, "\033[H\033[2J")
		return false, nil
	case "/clear-history":
		return false, a.clearHistory(ctx, false)
	case "/help":
		fmt.Fprint(a.out, helpText)
		return false, nil
	case "/quit", "/exit":
		return true, nil
	}

	slog.Debug("[REPL] Unknown command", slog.String("command", cmd))
	return false, fmt.Errorf("unknown command %s, try /help", cmd)
}
