package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jamtrace/internal/graph"
	"jamtrace/internal/query"
)

var (
	depsRebuiltOnly bool
	depsAll         bool
	depsOrder       string

	chainsMaxDepth    int
	chainsRebuiltOnly bool
)

// depsCmd shows a target's effective direct dependencies, or its full
// transitive expansion with --all.
var depsCmd = &cobra.Command{
	Use:   "deps [target]",
	Short: "Show a target's dependencies, includes unwound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := load()
		if err != nil {
			return err
		}
		target, err := findOneTarget(db, args[0])
		if err != nil {
			return err
		}
		deps, err := expandDeps(target)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			fmt.Println(dep.Name)
		}
		return nil
	},
}

func expandDeps(target *graph.Target) ([]*graph.Target, error) {
	if depsAll {
		switch depsOrder {
		case "bf":
			return query.AllDepsBF(target)
		case "df":
			return query.AllDepsDF(target)
		default:
			return nil, fmt.Errorf("invalid --order %q (want bf or df)", depsOrder)
		}
	}
	if depsRebuiltOnly {
		return query.DepsRebuilt(target)
	}
	return query.Deps(target)
}

// chainsCmd enumerates dependency chains below a target.
var chainsCmd = &cobra.Command{
	Use:   "chains [target]",
	Short: "Show all dependency chains below a target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := load()
		if err != nil {
			return err
		}
		target, err := findOneTarget(db, args[0])
		if err != nil {
			return err
		}
		var chains [][]*graph.Target
		if chainsRebuiltOnly {
			chains, err = query.DepChainsRebuilt(target)
		} else {
			chains, err = query.DepChains(target, chainsMaxDepth)
		}
		if err != nil {
			return err
		}
		printChains(chains)
		return nil
	},
}

// rebuildChainsCmd shows Jam's own stated reason chain for a rebuild.
var rebuildChainsCmd = &cobra.Command{
	Use:   "rebuild-chains [target]",
	Short: "Show the build tool's own rebuild blame chain for a target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := load()
		if err != nil {
			return err
		}
		target, err := findOneTarget(db, args[0])
		if err != nil {
			return err
		}
		chains := query.RebuildChains(target)
		if len(chains) == 0 {
			fmt.Printf("%s has no recorded rebuild cause\n", target.Name)
			return nil
		}
		printChains(chains)
		return nil
	},
}

func printChains(chains [][]*graph.Target) {
	for _, chain := range chains {
		names := make([]string, len(chain))
		for i, t := range chain {
			names[i] = t.Name
		}
		fmt.Println(strings.Join(names, " -> "))
	}
}

func init() {
	depsCmd.Flags().BoolVar(&depsRebuiltOnly, "rebuilt", false, "only dependencies that were rebuilt")
	depsCmd.Flags().BoolVar(&depsAll, "all", false, "full transitive expansion instead of direct deps")
	depsCmd.Flags().StringVar(&depsOrder, "order", "bf", "expansion order for --all: bf or df")

	chainsCmd.Flags().IntVar(&chainsMaxDepth, "max-depth", 0, "truncate chains at this many entries (0 = unbounded)")
	chainsCmd.Flags().BoolVar(&chainsRebuiltOnly, "rebuilt", false, "only chains of rebuilt targets")
}
