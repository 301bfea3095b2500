package shell

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jamtrace/internal/graph"
	"jamtrace/internal/query"
)

// runTargetMode is the submode for one target. It loops until exit or EOF;
// a successful switch-to-target runs the new submode and then unwinds.
func (s *Shell) runTargetMode(target *graph.Target) {
	for {
		fmt.Fprint(s.out, s.prompt(target.BriefName()))
		line, err := s.readLine()
		if err != nil {
			fmt.Fprintln(s.out)
			return
		}
		cmd, arg := splitCommand(line)
		var buf bytes.Buffer
		switch cmd {
		case "":
			continue
		case "exit", "quit":
			return
		case "help", "?":
			s.emit(s.renderHelp(targetHelp))
			continue
		case "paging":
			s.cmdPaging(arg)
			continue
		case "deps":
			s.writeDeps(&buf, target, query.Deps)
		case "deps-rebuilt":
			s.writeDeps(&buf, target, query.DepsRebuilt)
		case "dep-chains":
			s.writeDepChains(&buf, target, arg)
		case "dep-chains-rebuilt":
			chains, err := query.DepChainsRebuilt(target)
			if err != nil {
				s.printError("%v", err)
				continue
			}
			writeChains(&buf, chains)
		case "rebuild-chains":
			writeChains(&buf, query.RebuildChains(target))
		case "show":
			s.writeTargetShow(&buf, target)
		case "alternative-grists":
			s.writeAlternativeGrists(&buf, target)
		case "switch-to-target":
			if s.switchToTarget(arg) {
				return
			}
			continue
		default:
			s.printError("unknown command %q (try help)", cmd)
			continue
		}
		s.emit(buf.String())
	}
}

// switchToTarget resolves the pattern and, on a unique or exact match,
// runs that target's submode. Reports whether the current submode should
// unwind.
func (s *Shell) switchToTarget(pattern string) bool {
	targets, err := s.db.FindTargets(pattern)
	if err != nil {
		s.printError("invalid target pattern: %v", err)
		return false
	}
	switch len(targets) {
	case 0:
		fmt.Fprintln(s.out, "No targets found")
		return false
	case 1:
		s.runTargetMode(targets[0])
		return true
	}
	// Ambiguous: accept only an exact name match.
	for _, t := range targets {
		if t.Name == pattern {
			s.runTargetMode(t)
			return true
		}
	}
	fmt.Fprintf(s.out, "Target %s not found\n", pattern)
	return false
}

func (s *Shell) writeDeps(buf *bytes.Buffer, target *graph.Target, depsOf func(*graph.Target) ([]*graph.Target, error)) {
	deps, err := depsOf(target)
	if err != nil {
		s.printError("%v", err)
		return
	}
	writeTargets(buf, deps)
}

func (s *Shell) writeDepChains(buf *bytes.Buffer, target *graph.Target, arg string) {
	kwargs, err := parseKwargs(arg)
	if err != nil {
		s.printError("%v", err)
		return
	}
	maxDepth := 0
	if v, ok := kwargs["max_depth"]; ok {
		maxDepth, err = strconv.Atoi(v)
		if err != nil {
			s.printError("max_depth must be an integer: %v", err)
			return
		}
	}
	chains, err := query.DepChains(target, maxDepth)
	if err != nil {
		s.printError("%v", err)
		return
	}
	writeChains(buf, chains)
}

// writeTargetShow dumps everything recorded about a target.
func (s *Shell) writeTargetShow(buf *bytes.Buffer, t *graph.Target) {
	fmt.Fprintf(buf, "name: %s\n", t.Name)
	fmt.Fprintln(buf, "depends on:")
	writeTargets(buf, t.Deps)
	fmt.Fprintln(buf, "depended on by:")
	writeTargetSet(buf, t.DepsRev)
	fmt.Fprintln(buf, "includes:")
	writeTargets(buf, t.Incs)
	fmt.Fprintln(buf, "included by:")
	writeTargetSet(buf, t.IncsRev)
	fmt.Fprintln(buf, "variables:")
	for _, name := range t.VarNames() {
		values, _ := t.Var(name)
		fmt.Fprintf(buf, "    %s = %s\n", name, strings.Join(values, " "))
	}
	writeRoleCalls(buf, "target of:", t.RuleCalls(graph.RoleTarget))
	writeRoleCalls(buf, "source for:", t.RuleCalls(graph.RoleSource))
	writeRoleCalls(buf, "higher ordered target in:", t.RuleCalls(graph.RoleOther))
	if len(t.TimestampChain) > 0 {
		last := t.TimestampChain[len(t.TimestampChain)-1]
		fmt.Fprintf(buf, "timestamp: %s\n", last.Timestamp)
		fmt.Fprintln(buf, "timestamp inherited from:")
		writeTargets(buf, t.TimestampChain)
	} else {
		fmt.Fprintf(buf, "timestamp: %s\n", t.Timestamp)
	}
	fmt.Fprintf(buf, "binding: %s\n", t.Binding)
	fmt.Fprintf(buf, "rebuilt: %v\n", t.Rebuilt)
	if t.Rebuilt {
		fmt.Fprintf(buf, "    rebuilt reason: %s\n", t.RebuildInfo.Reason)
		if t.RebuildInfo.Dep != nil {
			fmt.Fprintf(buf, "    dependency: %s\n", t.RebuildInfo.Dep.Name)
		}
	}
}

// writeAlternativeGrists lists the grists of every target sharing this
// target's filename.
func (s *Shell) writeAlternativeGrists(buf *bytes.Buffer, target *graph.Target) {
	filename := target.Filename()
	matches, err := s.db.FindTargets(regexp.QuoteMeta(filename))
	if err != nil {
		s.printError("%v", err)
		return
	}
	var grists []string
	for _, t := range matches {
		if t.Filename() == filename {
			grists = append(grists, t.Grist())
		}
	}
	sort.Strings(grists)
	for _, grist := range grists {
		fmt.Fprintf(buf, "    %s\n", grist)
	}
}

func writeTargets(buf *bytes.Buffer, targets []*graph.Target) {
	for _, t := range targets {
		fmt.Fprintf(buf, "    %s\n", t.Name)
	}
}

// writeTargetSet prints a reverse-index set in name order, since the set
// itself is unordered.
func writeTargetSet(buf *bytes.Buffer, set map[*graph.Target]struct{}) {
	names := make([]string, 0, len(set))
	for t := range set {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(buf, "    %s\n", name)
	}
}

func writeChains(buf *bytes.Buffer, chains [][]*graph.Target) {
	for _, chain := range chains {
		names := make([]string, len(chain))
		for i, t := range chain {
			names[i] = t.Name
		}
		fmt.Fprintln(buf, strings.Join(names, " -> "))
	}
}

func writeRoleCalls(buf *bytes.Buffer, header string, calls []*graph.RuleCall) {
	if len(calls) == 0 {
		return
	}
	fmt.Fprintln(buf, header)
	for _, call := range calls {
		fmt.Fprintf(buf, "    %s\n", call)
	}
}
