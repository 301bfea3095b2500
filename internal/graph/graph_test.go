package graph

import (
	"errors"
	"testing"
)

func TestGetTargetCanonical(t *testing.T) {
	db := NewDatabase()
	first := db.GetTarget("foo")
	if first.Name != "foo" {
		t.Errorf("expected name foo, got %s", first.Name)
	}
	second := db.GetTarget("foo")
	if first != second {
		t.Error("expected the same instance for repeated GetTarget")
	}
	if db.NumTargets() != 1 {
		t.Errorf("expected 1 target, got %d", db.NumTargets())
	}
}

func TestFindTargets(t *testing.T) {
	db := NewDatabase()
	for _, name := range []string{"foo", "foo1", "foo2", "foo-bar", "<f>bar"} {
		db.GetTarget(name)
	}

	check := func(pattern string, expected []string) {
		t.Helper()
		targets, err := db.FindTargets(pattern)
		if err != nil {
			t.Fatalf("FindTargets(%q) failed: %v", pattern, err)
		}
		if len(targets) != len(expected) {
			t.Fatalf("FindTargets(%q): expected %d matches, got %d", pattern, len(expected), len(targets))
		}
		for i, name := range expected {
			if targets[i].Name != name {
				t.Errorf("FindTargets(%q)[%d]: expected %s, got %s", pattern, i, name, targets[i].Name)
			}
		}
	}

	// Matches come back in insertion order, substring semantics.
	check("foo", []string{"foo", "foo1", "foo2", "foo-bar"})
	check(`foo\d`, []string{"foo1", "foo2"})
	check("f.*bar", []string{"foo-bar", "<f>bar"})
}

func TestFindTargetsInvalidPattern(t *testing.T) {
	db := NewDatabase()
	db.GetTarget("foo")

	_, err := db.FindTargets("[unbalanced")
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("expected InvalidPatternError, got %T", err)
	}
	if patErr.Pattern != "[unbalanced" {
		t.Errorf("expected the offending pattern in the error, got %q", patErr.Pattern)
	}
}

func TestFindRebuiltTargets(t *testing.T) {
	db := NewDatabase()
	db.GetTarget("a")
	db.GetTarget("ab").SetRebuilt()
	db.GetTarget("abc")

	rebuilt, err := db.FindRebuiltTargets("a")
	if err != nil {
		t.Fatalf("FindRebuiltTargets failed: %v", err)
	}
	if len(rebuilt) != 1 || rebuilt[0].Name != "ab" {
		t.Errorf("expected [ab], got %v", rebuilt)
	}
}

func TestDeclareRule(t *testing.T) {
	db := NewDatabase()
	if db.GetRule("Cc") != nil {
		t.Error("expected nil for an undeclared rule")
	}
	first := db.DeclareRule("Cc")
	second := db.DeclareRule("Cc")
	if first != second {
		t.Error("expected DeclareRule to be idempotent")
	}
	if db.GetRule("Cc") != first {
		t.Error("expected GetRule to return the declared rule")
	}
}

func TestFindRules(t *testing.T) {
	db := NewDatabase()
	db.DeclareRule("Cc")
	db.DeclareRule("C++")
	db.DeclareRule("Link")

	rules, err := db.FindRules("^C")
	if err != nil {
		t.Fatalf("FindRules failed: %v", err)
	}
	if len(rules) != 2 || rules[0].Name != "Cc" || rules[1].Name != "C++" {
		t.Errorf("expected [Cc C++] in declaration order, got %v", rules)
	}

	if _, err := db.FindRules("("); err == nil {
		t.Error("expected an error for an invalid rule pattern")
	}
}

func TestDatabaseString(t *testing.T) {
	db := NewDatabase()
	db.GetTarget("foo")
	db.GetTarget("bar")
	if got := db.String(); got != "Database(2 targets, 0 rules)" {
		t.Errorf("unexpected String: %s", got)
	}
}
