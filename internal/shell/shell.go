// Package shell implements the interactive query shell: a line-oriented
// REPL over the parsed trace graph, with nested submodes for targets,
// rules, and individual rule calls.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jamtrace/internal/config"
	"jamtrace/internal/graph"
)

// Shell is one interactive session over a populated database.
type Shell struct {
	db       *graph.Database
	logger   *zap.Logger
	styles   *Styles
	session  string
	paging   bool
	pagerCmd string
	in       *bufio.Reader
	out      io.Writer
	isTTY    bool
}

// New creates a shell reading from stdin and writing to stdout.
func New(db *graph.Database, cfg *config.Config, logger *zap.Logger) *Shell {
	return &Shell{
		db:       db,
		logger:   logger,
		styles:   NewStyles(cfg.Color),
		session:  uuid.NewString(),
		paging:   cfg.Paging,
		pagerCmd: cfg.Pager,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		isTTY:    stdoutIsTerminal(),
	}
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Run is the top-level command loop. It returns on exit or EOF.
func (s *Shell) Run() error {
	s.logger.Info("shell session started",
		zap.String("session", s.session),
		zap.Int("targets", s.db.NumTargets()),
		zap.Int("rules", s.db.NumRules()))
	fmt.Fprintln(s.out, "Welcome to jamtrace. Type help or ? to list commands.")

	for {
		fmt.Fprint(s.out, s.prompt("jamtrace"))
		line, err := s.readLine()
		if err != nil {
			fmt.Fprintln(s.out)
			return nil
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "":
		case "exit", "quit":
			return nil
		case "help", "?":
			s.emit(s.renderHelp(topHelp))
		case "paging":
			s.cmdPaging(arg)
		case "targets":
			s.cmdTargets(arg, false)
		case "rebuilt-targets":
			s.cmdTargets(arg, true)
		case "rules":
			s.cmdRules(arg)
		default:
			s.printError("unknown command %q (try help)", cmd)
		}
	}
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) prompt(name string) string {
	return s.styles.Prompt.Render("("+name+")") + " "
}

func (s *Shell) printError(format string, args ...any) {
	fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// cmdPaging toggles paging of command output.
func (s *Shell) cmdPaging(arg string) {
	switch arg {
	case "on":
		s.paging = true
	case "off":
		s.paging = false
	default:
		s.printError("usage: paging on|off")
	}
}

// cmdTargets resolves a target pattern and enters the target submode.
func (s *Shell) cmdTargets(pattern string, rebuiltOnly bool) {
	var targets []*graph.Target
	var err error
	if rebuiltOnly {
		targets, err = s.db.FindRebuiltTargets(pattern)
	} else {
		targets, err = s.db.FindTargets(pattern)
	}
	if err != nil {
		s.printError("invalid target pattern: %v", err)
		return
	}
	target := s.selectTarget(targets)
	if target != nil {
		s.runTargetMode(target)
	}
}

// selectTarget narrows a match list to one target, via the picker when the
// pattern was ambiguous.
func (s *Shell) selectTarget(targets []*graph.Target) *graph.Target {
	switch len(targets) {
	case 0:
		fmt.Fprintln(s.out, "No targets found")
		return nil
	case 1:
		return targets[0]
	}
	items := make([]pickItem, len(targets))
	for i, t := range targets {
		items[i] = pickItem{title: t.Name, desc: targetSummary(t)}
	}
	index := s.pick("Choose target", items)
	if index < 0 {
		return nil
	}
	return targets[index]
}

// cmdRules resolves a rule pattern and enters the rule submode.
func (s *Shell) cmdRules(pattern string) {
	rules, err := s.db.FindRules(pattern)
	if err != nil {
		s.printError("invalid rule pattern: %v", err)
		return
	}
	switch len(rules) {
	case 0:
		fmt.Fprintln(s.out, "No rules found")
		return
	case 1:
		s.runRuleMode(rules[0])
		return
	}
	items := make([]pickItem, len(rules))
	for i, r := range rules {
		items[i] = pickItem{
			title: r.Name,
			desc:  fmt.Sprintf("%d calls", len(r.Calls)),
		}
	}
	if index := s.pick("Choose rule", items); index >= 0 {
		s.runRuleMode(rules[index])
	}
}

func targetSummary(t *graph.Target) string {
	state := "not rebuilt"
	if t.Rebuilt {
		state = "rebuilt"
	}
	return fmt.Sprintf("%d deps, %d incs, %s", len(t.Deps), len(t.Incs), state)
}

// splitCommand separates the command word from its argument text.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	return cmd, strings.TrimSpace(arg)
}

// parseKwargs parses "key=value" pairs from a command argument.
func parseKwargs(arg string) (map[string]string, error) {
	kwargs := make(map[string]string)
	for _, field := range strings.Fields(arg) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("malformed argument %q (want key=value)", field)
		}
		kwargs[key] = value
	}
	return kwargs, nil
}
