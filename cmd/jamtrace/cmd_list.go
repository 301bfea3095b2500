package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jamtrace/internal/graph"
)

// targetsCmd lists targets matching a pattern.
var targetsCmd = &cobra.Command{
	Use:   "targets [pattern]",
	Short: "List targets whose name matches a pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTargets(args, false)
	},
}

// rebuiltCmd lists rebuilt targets matching a pattern.
var rebuiltCmd = &cobra.Command{
	Use:   "rebuilt [pattern]",
	Short: "List rebuilt targets whose name matches a pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTargets(args, true)
	},
}

// rulesCmd lists rules matching a pattern.
var rulesCmd = &cobra.Command{
	Use:   "rules [pattern]",
	Short: "List rules whose name matches a pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := load()
		if err != nil {
			return err
		}
		rules, err := db.FindRules(patternArg(args))
		if err != nil {
			return err
		}
		for _, rule := range rules {
			fmt.Printf("%s (%d calls)\n", rule.Name, len(rule.Calls))
		}
		return nil
	},
}

func listTargets(args []string, rebuiltOnly bool) error {
	_, db, err := load()
	if err != nil {
		return err
	}
	var targets []*graph.Target
	if rebuiltOnly {
		targets, err = db.FindRebuiltTargets(patternArg(args))
	} else {
		targets, err = db.FindTargets(patternArg(args))
	}
	if err != nil {
		return err
	}
	for _, target := range targets {
		fmt.Println(target.Name)
	}
	return nil
}

// patternArg returns the optional pattern argument; an absent pattern
// matches everything.
func patternArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// findOneTarget resolves a command-line target argument: a unique pattern
// match, or an exact name among several matches.
func findOneTarget(db *graph.Database, pattern string) (*graph.Target, error) {
	targets, err := db.FindTargets(pattern)
	if err != nil {
		return nil, err
	}
	switch len(targets) {
	case 0:
		return nil, fmt.Errorf("no target matches %q", pattern)
	case 1:
		return targets[0], nil
	}
	for _, t := range targets {
		if t.Name == pattern {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%d targets match %q; give an exact name", len(targets), pattern)
}
