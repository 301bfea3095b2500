package shell

import (
	"bytes"
	"fmt"

	"jamtrace/internal/graph"
)

// runRuleMode is the submode for one rule.
func (s *Shell) runRuleMode(rule *graph.Rule) {
	for {
		fmt.Fprint(s.out, s.prompt(rule.Name))
		line, err := s.readLine()
		if err != nil {
			fmt.Fprintln(s.out)
			return
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "":
		case "exit", "quit":
			return
		case "help", "?":
			s.emit(s.renderHelp(ruleHelp))
		case "paging":
			s.cmdPaging(arg)
		case "show":
			var buf bytes.Buffer
			fmt.Fprintf(&buf, "name: %s\n", rule.Name)
			fmt.Fprintf(&buf, "number of calls: %d\n", len(rule.Calls))
			s.emit(buf.String())
		case "calls":
			s.cmdCalls(rule)
		case "switch-to-target":
			if s.switchToTarget(arg) {
				return
			}
		default:
			s.printError("unknown command %q (try help)", cmd)
		}
	}
}

// cmdCalls picks one invocation of the rule and enters its submode.
func (s *Shell) cmdCalls(rule *graph.Rule) {
	if len(rule.Calls) == 0 {
		fmt.Fprintln(s.out, "No calls recorded")
		return
	}
	items := make([]pickItem, len(rule.Calls))
	for i, call := range rule.Calls {
		items[i] = pickItem{
			title: call.String(),
			desc:  fmt.Sprintf("%d sub-calls", len(call.SubCalls)),
		}
	}
	if index := s.pick("Choose call", items); index >= 0 {
		s.runCallMode(rule.Calls[index])
	}
}

// runCallMode is the submode for one rule call.
func (s *Shell) runCallMode(call *graph.RuleCall) {
	for {
		fmt.Fprint(s.out, s.prompt(call.IDString()))
		line, err := s.readLine()
		if err != nil {
			fmt.Fprintln(s.out)
			return
		}
		cmd, _ := splitCommand(line)
		var buf bytes.Buffer
		switch cmd {
		case "":
			continue
		case "exit", "quit":
			return
		case "help", "?":
			s.emit(s.renderHelp(callHelp))
			continue
		case "show":
			writeCallShow(&buf, call)
		case "targets":
			fmt.Fprintln(&buf, "Targets:")
			writeTargets(&buf, call.Targets())
		case "sources":
			fmt.Fprintln(&buf, "Sources:")
			writeTargets(&buf, call.Sources())
		case "call-stack":
			writeCallStack(&buf, call)
		default:
			s.printError("unknown command %q (try help)", cmd)
			continue
		}
		s.emit(buf.String())
	}
}

func writeCallShow(buf *bytes.Buffer, call *graph.RuleCall) {
	fmt.Fprintln(buf, "Targets:")
	writeTargets(buf, call.Targets())
	fmt.Fprintln(buf, "Sources:")
	writeTargets(buf, call.Sources())
	if others := call.Others(); len(others) != 0 {
		fmt.Fprintln(buf, "Others:")
		for i, group := range others {
			fmt.Fprintf(buf, "  Arg %d:\n", i+3)
			writeTargets(buf, group)
		}
	}
	fmt.Fprintln(buf, "Called by:")
	if call.Caller != nil {
		fmt.Fprintf(buf, "    %s\n", call.Caller)
	} else {
		fmt.Fprintln(buf, "    (top level)")
	}
	if len(call.SubCalls) != 0 {
		fmt.Fprintln(buf, "Calls:")
		for _, sub := range call.SubCalls {
			fmt.Fprintf(buf, "    %s\n", sub)
		}
	}
}

// writeCallStack prints the chain of callers leading to this call,
// outermost first.
func writeCallStack(buf *bytes.Buffer, call *graph.RuleCall) {
	var stack []*graph.RuleCall
	for caller := call.Caller; caller != nil; caller = caller.Caller {
		stack = append(stack, caller)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprintf(buf, "%s\n", stack[i])
	}
}
