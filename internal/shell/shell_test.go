package shell

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"jamtrace/internal/config"
	"jamtrace/internal/graph"
)

func newTestShell(t *testing.T, db *graph.Database) (*Shell, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	s := &Shell{
		db:      db,
		logger:  zaptest.NewLogger(t),
		styles:  NewStyles(config.ColorNever),
		session: "test",
		in:      bufio.NewReader(strings.NewReader("")),
		out:     out,
	}
	return s, out
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		line, cmd, arg string
	}{
		{"deps", "deps", ""},
		{"  targets foo  ", "targets", "foo"},
		{"dep-chains max_depth=3", "dep-chains", "max_depth=3"},
		{"", "", ""},
	}
	for _, tc := range cases {
		cmd, arg := splitCommand(tc.line)
		if cmd != tc.cmd || arg != tc.arg {
			t.Errorf("splitCommand(%q) = %q, %q; want %q, %q",
				tc.line, cmd, arg, tc.cmd, tc.arg)
		}
	}
}

func TestParseKwargs(t *testing.T) {
	kwargs, err := parseKwargs("max_depth=3 order=bf")
	if err != nil {
		t.Fatalf("parseKwargs failed: %v", err)
	}
	if kwargs["max_depth"] != "3" || kwargs["order"] != "bf" {
		t.Errorf("unexpected kwargs: %v", kwargs)
	}

	if _, err := parseKwargs("maxdepth"); err == nil {
		t.Error("expected an error for a pair with no value")
	}
}

func TestTargetSummary(t *testing.T) {
	db := graph.NewDatabase()
	tgt := db.GetTarget("app")
	tgt.AddDependency(db.GetTarget("app.o"))
	tgt.SetRebuilt()

	if got := targetSummary(tgt); got != "1 deps, 0 incs, rebuilt" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestWriteChains(t *testing.T) {
	db := graph.NewDatabase()
	chain := []*graph.Target{db.GetTarget("a"), db.GetTarget("b"), db.GetTarget("c")}

	var buf bytes.Buffer
	writeChains(&buf, [][]*graph.Target{chain})
	if buf.String() != "a -> b -> c\n" {
		t.Errorf("unexpected chain output: %q", buf.String())
	}
}

func TestWriteTargetSetSorted(t *testing.T) {
	db := graph.NewDatabase()
	set := map[*graph.Target]struct{}{
		db.GetTarget("zz"): {},
		db.GetTarget("aa"): {},
	}

	var buf bytes.Buffer
	writeTargetSet(&buf, set)
	if buf.String() != "    aa\n    zz\n" {
		t.Errorf("unexpected set output: %q", buf.String())
	}
}

func TestWriteTargetShow(t *testing.T) {
	db := graph.NewDatabase()
	tgt := db.GetTarget("<app>main.o")
	tgt.AddDependency(db.GetTarget("main.c"))
	tgt.SetVar("OPTIM", []string{"-O2"})
	tgt.SetBinding("/build/main.o")
	tgt.SetTimestamp("Mon Nov  9 12:00:00 2015")
	tgt.SetRebuiltDep(db.GetTarget("main.c"))

	s, _ := newTestShell(t, db)
	var buf bytes.Buffer
	s.writeTargetShow(&buf, tgt)
	got := buf.String()

	for _, want := range []string{
		"name: <app>main.o\n",
		"depends on:\n    main.c\n",
		"    OPTIM = -O2\n",
		"timestamp: Mon Nov  9 12:00:00 2015\n",
		"binding: /build/main.o\n",
		"rebuilt: true\n",
		"    rebuilt reason: dependency updated\n",
		"    dependency: main.c\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q:\n%s", want, got)
		}
	}
}

func TestWriteTargetShowInheritedTimestamp(t *testing.T) {
	db := graph.NewDatabase()
	tgt := db.GetTarget("a")
	last := db.GetTarget("c")
	last.SetTimestamp("Tue Nov 10 09:00:00 2015")
	tgt.SetTimestampChain([]*graph.Target{db.GetTarget("b"), last})

	s, _ := newTestShell(t, db)
	var buf bytes.Buffer
	s.writeTargetShow(&buf, tgt)
	got := buf.String()

	if !strings.Contains(got, "timestamp: Tue Nov 10 09:00:00 2015\n") {
		t.Errorf("expected the timestamp taken from the chain end:\n%s", got)
	}
	if !strings.Contains(got, "timestamp inherited from:\n    b\n    c\n") {
		t.Errorf("expected the inheritance chain listed:\n%s", got)
	}
}

func TestWriteAlternativeGrists(t *testing.T) {
	db := graph.NewDatabase()
	db.GetTarget("<app>main.o")
	db.GetTarget("<lib>main.o")
	db.GetTarget("<app>other.o")

	s, _ := newTestShell(t, db)
	var buf bytes.Buffer
	s.writeAlternativeGrists(&buf, db.GetTarget("<app>main.o"))
	if buf.String() != "    <app>\n    <lib>\n" {
		t.Errorf("unexpected grists: %q", buf.String())
	}
}

func TestSelectTarget(t *testing.T) {
	db := graph.NewDatabase()
	only := db.GetTarget("solo")

	s, out := newTestShell(t, db)
	if got := s.selectTarget([]*graph.Target{only}); got != only {
		t.Errorf("expected the single match returned, got %v", got)
	}

	if got := s.selectTarget(nil); got != nil {
		t.Errorf("expected nil for no matches, got %v", got)
	}
	if !strings.Contains(out.String(), "No targets found") {
		t.Errorf("expected a no-match message, got %q", out.String())
	}
}
