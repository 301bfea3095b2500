package graph

import (
	"fmt"
	"strings"
)

// Role classifies the position a target occupied in a rule call's argument
// list. Only three roles exist: group 0 is the target group, group 1 the
// source group, everything after that is "other".
type Role int

const (
	RoleTarget Role = iota
	RoleSource
	RoleOther
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleTarget:
		return "target"
	case RoleSource:
		return "source"
	case RoleOther:
		return "other"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RebuildInfo records why the build tool decided to rebuild a target.
// Dep is the single dependency the tool blamed, when it blamed one.
type RebuildInfo struct {
	Reason string
	Dep    *Target
}

// Target is one node of the dependency graph: a buildable artifact or
// pseudo-target, identified by its full name including any grist prefix.
//
// Deps and Incs keep the order the relations were first reported in; the
// reverse sets index the same relations from the other end and double as
// the dedup guard (a relation observed twice is recorded once).
type Target struct {
	Name string

	Deps    []*Target
	DepsRev map[*Target]struct{}
	Incs    []*Target
	IncsRev map[*Target]struct{}

	Timestamp   string
	Binding     string
	Rebuilt     bool
	RebuildInfo RebuildInfo

	// TimestampChain is nil unless the trace reported this target's
	// timestamp as inherited. A later reported chain replaces an earlier
	// one.
	TimestampChain []*Target

	varNames  []string
	varValues map[string][]string

	ruleCalls [numRoles][]*RuleCall
}

func newTarget(name string) *Target {
	return &Target{
		Name:    name,
		DepsRev: make(map[*Target]struct{}),
		IncsRev: make(map[*Target]struct{}),
	}
}

func (t *Target) String() string {
	return fmt.Sprintf("Target(%s)", t.Name)
}

// AddDependency records that this target depends on other. Repeated
// observations of the same edge are ignored.
func (t *Target) AddDependency(other *Target) {
	if _, ok := other.DepsRev[t]; ok {
		return
	}
	t.Deps = append(t.Deps, other)
	other.DepsRev[t] = struct{}{}
}

// AddInclusion records that this target includes other (in the Jam sense).
// Repeated observations of the same edge are ignored.
func (t *Target) AddInclusion(other *Target) {
	if _, ok := other.IncsRev[t]; ok {
		return
	}
	t.Incs = append(t.Incs, other)
	other.IncsRev[t] = struct{}{}
}

// SetTimestamp records the target's timestamp as reported by the trace.
func (t *Target) SetTimestamp(timestamp string) {
	t.Timestamp = timestamp
}

// SetBinding records the file path the target was bound to.
func (t *Target) SetBinding(binding string) {
	t.Binding = binding
}

// SetRebuilt marks this target as having been rebuilt.
func (t *Target) SetRebuilt() {
	t.Rebuilt = true
}

// SetRebuiltReason marks this target rebuilt with the given reason text.
func (t *Target) SetRebuiltReason(reason string) {
	t.Rebuilt = true
	t.RebuildInfo.Reason = reason
}

// SetRebuiltDep marks this target rebuilt because the given dependency was
// updated.
func (t *Target) SetRebuiltDep(dep *Target) {
	t.Rebuilt = true
	t.RebuildInfo.Reason = "dependency updated"
	t.RebuildInfo.Dep = dep
}

// SetTimestampChain records the chain of targets this target inherits its
// timestamp from, replacing any previously recorded chain.
func (t *Target) SetTimestampChain(chain []*Target) {
	t.TimestampChain = chain
}

// SetVar sets a target-specific variable. Values replace any previous
// values for the same variable; first-set order of names is preserved.
func (t *Target) SetVar(name string, values []string) {
	if t.varValues == nil {
		t.varValues = make(map[string][]string)
	}
	if _, ok := t.varValues[name]; !ok {
		t.varNames = append(t.varNames, name)
	}
	t.varValues[name] = values
}

// Var returns the values of a target-specific variable.
func (t *Target) Var(name string) ([]string, bool) {
	values, ok := t.varValues[name]
	return values, ok
}

// VarNames returns the target's variable names in first-set order.
func (t *Target) VarNames() []string { return t.varNames }

// RuleCalls returns the calls in which this target played the given role,
// in the order the calls were parsed.
func (t *Target) RuleCalls(role Role) []*RuleCall {
	return t.ruleCalls[role]
}

func (t *Target) addRuleCall(role Role, call *RuleCall) {
	t.ruleCalls[role] = append(t.ruleCalls[role], call)
}

// Filename returns the target's name with any grist prefix stripped.
func (t *Target) Filename() string {
	_, filename := t.gristAndFilename()
	return filename
}

// Grist returns the target's bracketed grist prefix, or "" if it has none.
func (t *Target) Grist() string {
	grist, _ := t.gristAndFilename()
	return grist
}

// BriefName returns a summarised version of the target's name, eliding all
// but the first two components of a long grist.
func (t *Target) BriefName() string {
	grist, filename := t.gristAndFilename()
	if strings.Count(grist, "!") > 1 {
		parts := strings.SplitN(grist, "!", 3)
		return fmt.Sprintf("%s!%s!...>%s", parts[0], parts[1], filename)
	}
	return grist + filename
}

func (t *Target) gristAndFilename() (string, string) {
	if strings.HasPrefix(t.Name, "<") {
		if i := strings.Index(t.Name, ">"); i >= 0 {
			return t.Name[:i+1], t.Name[i+1:]
		}
	}
	return "", t.Name
}
