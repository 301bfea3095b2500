package parsers

import (
	"bufio"
	"os"
	"regexp"

	"jamtrace/internal/graph"
)

var (
	reRebuildOlder = regexp.MustCompile(`^\s*Rebuilding "([^"]+)": it is older than "([^"]+)"`)
	reRebuild      = regexp.MustCompile(`^\s*Rebuilding "([^"]+)": (.+)$`)
	reInherits     = regexp.MustCompile(`^\s*"([^"]+)" inherits timestamp from "([^"]+)"`)
)

// DCParser handles the causality dialect (jam -dc): narrative lines
// explaining why a target is out of date, interleaved with runs of
// timestamp-inheritance lines:
//
//	Rebuilding "x": it is older than "y"
//	Rebuilding "x": it doesn't exist
//	        "a" inherits timestamp from "b"
//
// Consecutive inheritance lines whose left side links onto the previous
// line's right side form one chain, attached to the first target of the
// run. A chain reported again for the same target replaces the earlier
// one.
type DCParser struct {
	db *graph.Database

	// Current inheritance run. head is the target the chain belongs to,
	// tail the last inheritee seen, chain the inheritees in order.
	head  *graph.Target
	tail  *graph.Target
	chain []*graph.Target
}

// NewDCParser returns a parser feeding the given database.
func NewDCParser(db *graph.Database) *DCParser {
	return &DCParser{db: db}
}

// Name implements Parser.
func (p *DCParser) Name() string { return "jam -dc parser" }

// ParseLogfile implements Parser.
func (p *DCParser) ParseLogfile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	p.resetChain()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	p.flushChain()
	return scanner.Err()
}

func (p *DCParser) parseLine(line string) {
	if m := reInherits.FindStringSubmatch(line); m != nil {
		p.parseInheritsLine(p.db.GetTarget(m[1]), p.db.GetTarget(m[2]))
		return
	}
	// Any non-inheritance line ends the current run.
	p.flushChain()
	if m := reRebuildOlder.FindStringSubmatch(line); m != nil {
		p.db.GetTarget(m[1]).SetRebuiltDep(p.db.GetTarget(m[2]))
		return
	}
	if m := reRebuild.FindStringSubmatch(line); m != nil {
		p.db.GetTarget(m[1]).SetRebuiltReason(m[2])
	}
}

// parseInheritsLine extends the current inheritance run when the inheriter
// is the run's tail, and starts a fresh run otherwise.
func (p *DCParser) parseInheritsLine(inheriter, inheritee *graph.Target) {
	if p.head != nil && inheriter == p.tail {
		p.chain = append(p.chain, inheritee)
		p.tail = inheritee
		return
	}
	p.flushChain()
	p.head = inheriter
	p.chain = []*graph.Target{inheritee}
	p.tail = inheritee
}

// flushChain attaches the accumulated run to its head target. Last
// observation wins: a fresh chain for a target that already has one
// replaces it.
func (p *DCParser) flushChain() {
	if p.head != nil {
		p.head.SetTimestampChain(p.chain)
	}
	p.resetChain()
}

func (p *DCParser) resetChain() {
	p.head = nil
	p.tail = nil
	p.chain = nil
}
