package graph

import (
	"testing"
)

func TestAddDependencyOrderAndDedup(t *testing.T) {
	db := NewDatabase()
	a := db.GetTarget("a")
	b := db.GetTarget("b")
	c := db.GetTarget("c")

	a.AddDependency(c)
	a.AddDependency(b)
	c.AddDependency(b)
	// Repeated observations must not duplicate the edge.
	a.AddDependency(c)
	a.AddDependency(b)

	if len(a.Deps) != 2 || a.Deps[0] != c || a.Deps[1] != b {
		t.Errorf("expected a.Deps == [c b], got %v", a.Deps)
	}
	if len(b.DepsRev) != 2 {
		t.Errorf("expected 2 reverse deps on b, got %d", len(b.DepsRev))
	}
	if _, ok := b.DepsRev[a]; !ok {
		t.Error("expected a in b.DepsRev")
	}
	if _, ok := b.DepsRev[c]; !ok {
		t.Error("expected c in b.DepsRev")
	}
	if len(c.DepsRev) != 1 {
		t.Errorf("expected 1 reverse dep on c, got %d", len(c.DepsRev))
	}
}

func TestAddInclusionOrderAndDedup(t *testing.T) {
	db := NewDatabase()
	a := db.GetTarget("a")
	b := db.GetTarget("b")
	c := db.GetTarget("c")

	a.AddInclusion(c)
	a.AddInclusion(b)
	a.AddInclusion(c)

	if len(a.Incs) != 2 || a.Incs[0] != c || a.Incs[1] != b {
		t.Errorf("expected a.Incs == [c b], got %v", a.Incs)
	}
	if _, ok := c.IncsRev[a]; !ok {
		t.Error("expected a in c.IncsRev")
	}
}

func TestGristAndFilename(t *testing.T) {
	db := NewDatabase()
	tgt := db.GetTarget("<grist!nonsense>this_is-the_filename.abc")
	if got := tgt.Filename(); got != "this_is-the_filename.abc" {
		t.Errorf("unexpected filename: %s", got)
	}
	if got := tgt.Grist(); got != "<grist!nonsense>" {
		t.Errorf("unexpected grist: %s", got)
	}

	plain := db.GetTarget("plain.c")
	if plain.Grist() != "" || plain.Filename() != "plain.c" {
		t.Errorf("unexpected split for ungristed name: %q %q", plain.Grist(), plain.Filename())
	}
}

func TestBriefName(t *testing.T) {
	db := NewDatabase()
	long := db.GetTarget("<blah!grist!ablah!bblah>some_filename.foo")
	if got := long.BriefName(); got != "<blah!grist!...>some_filename.foo" {
		t.Errorf("unexpected brief name: %s", got)
	}
	short := db.GetTarget("<one!two>file.c")
	if got := short.BriefName(); got != "<one!two>file.c" {
		t.Errorf("short grists must not be elided, got: %s", got)
	}
}

func TestSetVarOrderAndReplace(t *testing.T) {
	db := NewDatabase()
	tgt := db.GetTarget("t")
	tgt.SetVar("CFLAGS", []string{"-O2"})
	tgt.SetVar("DEFINES", []string{"A", "B"})
	tgt.SetVar("CFLAGS", []string{"-O0", "-g"})

	names := tgt.VarNames()
	if len(names) != 2 || names[0] != "CFLAGS" || names[1] != "DEFINES" {
		t.Errorf("expected first-set name order, got %v", names)
	}
	values, ok := tgt.Var("CFLAGS")
	if !ok || len(values) != 2 || values[0] != "-O0" {
		t.Errorf("expected replaced values, got %v", values)
	}
}

func TestSetTimestampChainReplaces(t *testing.T) {
	db := NewDatabase()
	head := db.GetTarget("head")
	first := []*Target{db.GetTarget("a"), db.GetTarget("b")}
	second := []*Target{db.GetTarget("c")}

	head.SetTimestampChain(first)
	head.SetTimestampChain(second)
	if len(head.TimestampChain) != 1 || head.TimestampChain[0].Name != "c" {
		t.Errorf("expected the later chain to win, got %v", head.TimestampChain)
	}
}

func TestSetRebuiltDep(t *testing.T) {
	db := NewDatabase()
	tgt := db.GetTarget("t")
	dep := db.GetTarget("d")
	tgt.SetRebuiltDep(dep)
	if !tgt.Rebuilt {
		t.Error("expected rebuilt flag set")
	}
	if tgt.RebuildInfo.Dep != dep {
		t.Error("expected the blamed dependency recorded")
	}
	if tgt.RebuildInfo.Reason == "" {
		t.Error("expected a rebuild reason")
	}
}

func TestRuleAddCallGroupsAndRoles(t *testing.T) {
	db := NewDatabase()
	rule := db.DeclareRule("Cc")
	call := rule.AddCall(db, []string{"obj.o", ":", "src.c", "hdr.h", ":", "extra"})

	if call.ID != 0 {
		t.Errorf("expected first call id 0, got %d", call.ID)
	}
	if len(call.Targets()) != 1 || call.Targets()[0].Name != "obj.o" {
		t.Errorf("unexpected targets group: %v", call.Targets())
	}
	if len(call.Sources()) != 2 {
		t.Errorf("unexpected sources group: %v", call.Sources())
	}
	if len(call.Others()) != 1 || call.Others()[0][0].Name != "extra" {
		t.Errorf("unexpected other groups: %v", call.Others())
	}

	obj := db.GetTarget("obj.o")
	if calls := obj.RuleCalls(RoleTarget); len(calls) != 1 || calls[0] != call {
		t.Errorf("expected obj.o linked as call target, got %v", calls)
	}
	src := db.GetTarget("src.c")
	if calls := src.RuleCalls(RoleSource); len(calls) != 1 {
		t.Errorf("expected src.c linked as call source, got %v", calls)
	}
	extra := db.GetTarget("extra")
	if calls := extra.RuleCalls(RoleOther); len(calls) != 1 {
		t.Errorf("expected extra linked in the other role, got %v", calls)
	}

	second := rule.AddCall(db, []string{"obj2.o"})
	if second.ID != 1 {
		t.Errorf("expected second call id 1, got %d", second.ID)
	}
	if second.IDString() != "Cc#1" {
		t.Errorf("unexpected id string: %s", second.IDString())
	}
}

func TestSetCallerTwicePanics(t *testing.T) {
	db := NewDatabase()
	rule := db.DeclareRule("R")
	outer := rule.AddCall(db, nil)
	inner := rule.AddCall(db, nil)

	inner.SetCaller(outer)
	if inner.Caller != outer {
		t.Fatal("expected caller recorded")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on double caller assignment")
		}
	}()
	inner.SetCaller(outer)
}
