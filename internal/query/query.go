// Package query implements read-only closure and path-enumeration queries
// over the target graph. Inclusion edges are transparent: an included
// target's own effective dependencies count as if they were depended on
// directly, since that is the only way a "why did this rebuild" question
// reaches a real dependency.
package query

import (
	"fmt"

	"jamtrace/internal/graph"
)

// CyclicInclusionError reports an inclusion cycle encountered while
// unwinding effective dependencies. Without this guard the unwind would
// recurse forever.
type CyclicInclusionError struct {
	Target *graph.Target
}

func (e *CyclicInclusionError) Error() string {
	return fmt.Sprintf("inclusion cycle detected at %q", e.Target.Name)
}

// Deps returns the effective direct dependencies of a target: its own deps
// followed by the recursively computed effective deps of each included
// target, deduplicated keeping the first occurrence.
func Deps(target *graph.Target) ([]*graph.Target, error) {
	return depsRec(target, make(map[*graph.Target]bool))
}

func depsRec(target *graph.Target, unwinding map[*graph.Target]bool) ([]*graph.Target, error) {
	if unwinding[target] {
		return nil, &CyclicInclusionError{Target: target}
	}
	unwinding[target] = true
	defer delete(unwinding, target)

	seen := make(map[*graph.Target]bool)
	var deps []*graph.Target
	add := func(t *graph.Target) {
		if !seen[t] {
			seen[t] = true
			deps = append(deps, t)
		}
	}

	for _, dep := range target.Deps {
		add(dep)
	}
	for _, inc := range target.Incs {
		incDeps, err := depsRec(inc, unwinding)
		if err != nil {
			return nil, err
		}
		for _, dep := range incDeps {
			add(dep)
		}
	}
	return deps, nil
}

// DepsRebuilt is Deps filtered to targets marked rebuilt, order preserved.
func DepsRebuilt(target *graph.Target) ([]*graph.Target, error) {
	deps, err := Deps(target)
	if err != nil {
		return nil, err
	}
	var rebuilt []*graph.Target
	for _, dep := range deps {
		if dep.Rebuilt {
			rebuilt = append(rebuilt, dep)
		}
	}
	return rebuilt, nil
}

// AllDepsBF returns the breadth-first expansion of a target's effective
// dependencies, level by level, with no deduplication across the
// traversal: a target reached along several branches appears once per
// branch. The traversal ends when a level generates no children.
func AllDepsBF(target *graph.Target) ([]*graph.Target, error) {
	level, err := Deps(target)
	if err != nil {
		return nil, err
	}
	var all []*graph.Target
	for len(level) > 0 {
		all = append(all, level...)
		var next []*graph.Target
		for _, t := range level {
			children, err := Deps(t)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		level = next
	}
	return all, nil
}

// AllDepsDF returns the pre-order depth-first expansion of a target's
// effective dependencies: each dependency is followed immediately by its
// entire subtree. Like AllDepsBF there is no traversal-wide deduplication.
func AllDepsDF(target *graph.Target) ([]*graph.Target, error) {
	var all []*graph.Target
	var visit func(t *graph.Target) error
	visit = func(t *graph.Target) error {
		children, err := Deps(t)
		if err != nil {
			return err
		}
		for _, child := range children {
			all = append(all, child)
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(target); err != nil {
		return nil, err
	}
	return all, nil
}

// DepChains returns every root-to-leaf path in the dependency expansion
// tree below a target. Each chain starts with the target itself; a chain
// ends at a target with no effective dependencies, or is truncated as-is
// once it holds maxDepth entries. maxDepth <= 0 means unbounded. The order
// of the returned chains is not a contract, only membership is.
func DepChains(target *graph.Target, maxDepth int) ([][]*graph.Target, error) {
	return chains(target, maxDepth, Deps)
}

// DepChainsRebuilt is DepChains restricted to chains of rebuilt targets:
// a branch is pruned at the point a non-rebuilt dependency is reached. The
// queried target itself is always included as the chain root.
func DepChainsRebuilt(target *graph.Target) ([][]*graph.Target, error) {
	return chains(target, 0, DepsRebuilt)
}

func chains(target *graph.Target, maxDepth int, children func(*graph.Target) ([]*graph.Target, error)) ([][]*graph.Target, error) {
	var result [][]*graph.Target
	var walk func(path []*graph.Target) error
	walk = func(path []*graph.Target) error {
		tip := path[len(path)-1]
		if maxDepth > 0 && len(path) >= maxDepth {
			result = append(result, append([]*graph.Target(nil), path...))
			return nil
		}
		next, err := children(tip)
		if err != nil {
			return err
		}
		if len(next) == 0 {
			result = append(result, append([]*graph.Target(nil), path...))
			return nil
		}
		for _, child := range next {
			if err := walk(append(path, child)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk([]*graph.Target{target}); err != nil {
		return nil, err
	}
	return result, nil
}

// RebuildChains reconstructs the build tool's own stated causal chain for a
// rebuild, following each target's single blamed dependency until a target
// with no recorded blame. It is independent of the full dependency graph.
// A target the tool never blamed a dependency for yields no chains.
func RebuildChains(target *graph.Target) [][]*graph.Target {
	if target.RebuildInfo.Dep == nil {
		return nil
	}
	visited := map[*graph.Target]bool{target: true}
	chain := []*graph.Target{target}
	for t := target.RebuildInfo.Dep; t != nil; t = t.RebuildInfo.Dep {
		if visited[t] {
			break
		}
		visited[t] = true
		chain = append(chain, t)
	}
	return [][]*graph.Target{chain}
}
