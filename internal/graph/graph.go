// Package graph holds the in-memory database of build targets, rules, and
// rule invocations reconstructed from Jam debug traces. Entities are
// canonical: one live instance per name, created lazily on first reference
// and kept for the lifetime of the database.
package graph

import (
	"fmt"
	"regexp"
)

// InvalidPatternError reports a syntactically invalid search pattern passed
// to one of the Find* methods. It is never swallowed as "no matches".
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Database is the store of all targets and rules parsed from a trace.
// It is not safe for concurrent mutation; parsing is single-threaded.
type Database struct {
	targets     map[string]*Target
	targetOrder []*Target
	rules       map[string]*Rule
	ruleOrder   []*Rule
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{
		targets: make(map[string]*Target),
		rules:   make(map[string]*Rule),
	}
}

func (db *Database) String() string {
	return fmt.Sprintf("Database(%d targets, %d rules)", len(db.targets), len(db.rules))
}

// GetTarget returns the canonical target with the given name, creating and
// registering it on first use.
func (db *Database) GetTarget(name string) *Target {
	if t, ok := db.targets[name]; ok {
		return t
	}
	t := newTarget(name)
	db.targets[name] = t
	db.targetOrder = append(db.targetOrder, t)
	return t
}

// FindTargets returns, in insertion order, every target whose name contains
// a match of the pattern (substring search, not full-match). A malformed
// pattern yields an InvalidPatternError.
func (db *Database) FindTargets(pattern string) ([]*Target, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	var found []*Target
	for _, t := range db.targetOrder {
		if re.MatchString(t.Name) {
			found = append(found, t)
		}
	}
	return found, nil
}

// FindRebuiltTargets is FindTargets restricted to targets marked rebuilt.
func (db *Database) FindRebuiltTargets(pattern string) ([]*Target, error) {
	all, err := db.FindTargets(pattern)
	if err != nil {
		return nil, err
	}
	var rebuilt []*Target
	for _, t := range all {
		if t.Rebuilt {
			rebuilt = append(rebuilt, t)
		}
	}
	return rebuilt, nil
}

// GetRule returns the rule with the given name, or nil if it has not been
// declared. It never creates.
func (db *Database) GetRule(name string) *Rule {
	return db.rules[name]
}

// DeclareRule returns the rule with the given name, creating it if this is
// the first declaration. Repeated declarations are idempotent.
func (db *Database) DeclareRule(name string) *Rule {
	if r, ok := db.rules[name]; ok {
		return r
	}
	r := &Rule{Name: name}
	db.rules[name] = r
	db.ruleOrder = append(db.ruleOrder, r)
	return r
}

// FindRules returns, in declaration order, every rule whose name contains a
// match of the pattern. Matching semantics are the same as FindTargets.
func (db *Database) FindRules(pattern string) ([]*Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	var found []*Rule
	for _, r := range db.ruleOrder {
		if re.MatchString(r.Name) {
			found = append(found, r)
		}
	}
	return found, nil
}

// Targets returns all targets in insertion order.
func (db *Database) Targets() []*Target { return db.targetOrder }

// Rules returns all rules in declaration order.
func (db *Database) Rules() []*Rule { return db.ruleOrder }

// NumTargets returns the number of distinct targets seen so far.
func (db *Database) NumTargets() int { return len(db.targets) }

// NumRules returns the number of distinct rules declared so far.
func (db *Database) NumRules() int { return len(db.rules) }
