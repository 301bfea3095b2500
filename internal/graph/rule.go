package graph

import (
	"fmt"
	"strings"
)

// Rule is a named Jam procedure. Every invocation observed in the trace is
// recorded as a RuleCall, numbered from 0 in call order.
type Rule struct {
	Name  string
	Calls []*RuleCall
}

func (r *Rule) String() string {
	return fmt.Sprintf("Rule(name=%s)", r.Name)
}

// AddCall records an invocation of this rule. args is the raw trace
// argument list, colon tokens separating the argument groups. Every target
// named in the arguments is resolved through db and linked back into its
// role map.
func (r *Rule) AddCall(db *Database, args []string) *RuleCall {
	call := &RuleCall{
		Rule: r,
		Args: [][]*Target{nil},
		ID:   len(r.Calls),
	}
	group := 0
	for _, arg := range args {
		if arg == ":" {
			call.Args = append(call.Args, nil)
			group++
			continue
		}
		target := db.GetTarget(arg)
		call.Args[group] = append(call.Args[group], target)
		switch {
		case group == 0:
			target.addRuleCall(RoleTarget, call)
		case group == 1:
			target.addRuleCall(RoleSource, call)
		default:
			target.addRuleCall(RoleOther, call)
		}
	}
	r.Calls = append(r.Calls, call)
	return call
}

// RuleCall is one invocation of a rule. Args holds the colon-separated
// argument groups: group 0 is the targets, group 1 the sources, and any
// further groups are "other" arguments.
type RuleCall struct {
	Rule     *Rule
	Caller   *RuleCall
	SubCalls []*RuleCall
	Args     [][]*Target
	ID       int
}

// IDString returns the call's display identifier, e.g. "Cc#3".
func (c *RuleCall) IDString() string {
	return fmt.Sprintf("%s#%d", c.Rule.Name, c.ID)
}

func (c *RuleCall) String() string {
	groups := make([]string, len(c.Args))
	for i, group := range c.Args {
		var b strings.Builder
		for _, target := range group {
			b.WriteString(" ")
			b.WriteString(target.BriefName())
		}
		groups[i] = b.String()
	}
	return c.IDString() + strings.Join(groups, " :")
}

// SetCaller records the rule call this call was made from. The caller link
// may be set at most once; a second assignment means the parser's frame
// stack is corrupt, which is a programming error, not bad input.
func (c *RuleCall) SetCaller(caller *RuleCall) {
	if c.Caller != nil {
		panic(fmt.Sprintf("caller already set on %s", c.IDString()))
	}
	c.Caller = caller
}

// AddSubCall records a rule call made from this call.
func (c *RuleCall) AddSubCall(call *RuleCall) {
	c.SubCalls = append(c.SubCalls, call)
}

// Targets returns the first argument group.
func (c *RuleCall) Targets() []*Target {
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	return nil
}

// Sources returns the second argument group.
func (c *RuleCall) Sources() []*Target {
	if len(c.Args) > 1 {
		return c.Args[1]
	}
	return nil
}

// Others returns the third and higher argument groups.
func (c *RuleCall) Others() [][]*Target {
	if len(c.Args) > 2 {
		return c.Args[2:]
	}
	return nil
}
