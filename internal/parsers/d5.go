package parsers

import (
	"bufio"
	"os"
	"strings"

	"jamtrace/internal/graph"
)

// maxEvenDepth is the deepest call nesting the trace format represents
// with an even-length marker; beyond it the encoder switches to odd-length
// markers. Carried verbatim from the format, not derived.
const maxEvenDepth = 35

// frame is one entry of the call-nesting stack. It carries the rule call
// parsed on its line, if any, so deeper frames can find their caller.
type frame struct {
	line string
	call *graph.RuleCall
}

// D5Parser handles the rule-flow dialect (jam -d+5): every line of
// interest starts with a '>' marker token whose length encodes the current
// call-nesting depth. It recognizes rule declarations, target-variable
// assignments, dependency and inclusion edges, and rule invocations:
//
//	>>.. rule RuleName
//	>>.. set VARIABLE on Targets ... = Values ...
//	>>.. Depends x ... : y ...
//	>>.. Includes x ... : y ...
//	>>.. RuleName args ... : args ...
type D5Parser struct {
	db    *graph.Database
	stack []frame
}

// NewD5Parser returns a parser feeding the given database.
func NewD5Parser(db *graph.Database) *D5Parser {
	return &D5Parser{db: db}
}

// Name implements Parser.
func (p *D5Parser) Name() string { return "jam -d+5 parser" }

// ParseLogfile implements Parser.
func (p *D5Parser) ParseLogfile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	p.stack = []frame{{}}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	return scanner.Err()
}

// parseLine classifies one line and applies its graph mutation. The
// classifiers run in priority order; the first match wins. A line matching
// nothing contributes nothing.
func (p *D5Parser) parseLine(line string) {
	words := strings.Fields(line)
	if len(words) < 2 {
		// No interest in single word lines.
		return
	}
	if !strings.HasPrefix(words[0], ">") {
		return
	}

	depth := markerDepth(words[0])
	for len(p.stack) > depth {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = append(p.stack, frame{line: line})

	if p.parseDeclLine(words) {
		return
	}
	if p.parseSetLine(words) {
		return
	}
	if p.parseDepLine(words) {
		return
	}
	if p.parseIncLine(words) {
		return
	}
	p.parseCallLine(words)
}

// parseDeclLine handles ">>.. rule RuleName".
func (p *D5Parser) parseDeclLine(words []string) bool {
	if len(words) != 3 || words[1] != "rule" {
		return false
	}
	p.db.DeclareRule(words[2])
	return true
}

// parseSetLine handles ">>.. set VARIABLE on Target1 Target2 ... = Values".
func (p *D5Parser) parseSetLine(words []string) bool {
	if len(words) < 6 || words[1] != "set" || words[3] != "on" {
		return false
	}
	eq := tokenIndex(words, "=", 5)
	if eq < 0 {
		return false
	}
	variable := words[2]
	values := words[eq+1:]
	for _, name := range words[4:eq] {
		p.db.GetTarget(name).SetVar(variable, values)
	}
	return true
}

// parseDepLine handles ">>.. Depends x ... : y ...".
func (p *D5Parser) parseDepLine(words []string) bool {
	if len(words) <= 3 || (words[1] != "Depends" && words[1] != "DEPENDS") {
		return false
	}
	colon := tokenIndex(words, ":", 3)
	if colon < 0 {
		return false
	}
	for _, lhs := range words[2:colon] {
		target := p.db.GetTarget(lhs)
		for _, rhs := range words[colon+1:] {
			target.AddDependency(p.db.GetTarget(rhs))
		}
	}
	return true
}

// parseIncLine handles ">>.. Includes x ... : y ...".
func (p *D5Parser) parseIncLine(words []string) bool {
	if len(words) <= 3 || (words[1] != "Includes" && words[1] != "INCLUDES") {
		return false
	}
	colon := tokenIndex(words, ":", 3)
	if colon < 0 {
		return false
	}
	for _, lhs := range words[2:colon] {
		target := p.db.GetTarget(lhs)
		for _, rhs := range words[colon+1:] {
			target.AddInclusion(p.db.GetTarget(rhs))
		}
	}
	return true
}

// parseCallLine handles ">>.. RuleName args...". Only rules already
// declared in the store count; anything else is an unmodelled line. The
// new call is wired to the call on the enclosing frame, if that frame
// carries one.
func (p *D5Parser) parseCallLine(words []string) bool {
	rule := p.db.GetRule(words[1])
	if rule == nil {
		return false
	}
	call := rule.AddCall(p.db, words[2:])
	p.stack[len(p.stack)-1].call = call
	if len(p.stack) > 1 {
		if caller := p.stack[len(p.stack)-2].call; caller != nil {
			call.SetCaller(caller)
			caller.AddSubCall(call)
		}
	}
	return true
}

// markerDepth decodes the call-nesting depth from the marker token that
// starts a d+5 line. An even-length marker encodes depth length/2; past
// maxEvenDepth the format switches to odd-length markers, decoded as
// (maxEvenDepth + length) / 2.
func markerDepth(marker string) int {
	if len(marker)%2 == 0 {
		return len(marker) / 2
	}
	return (maxEvenDepth + len(marker)) / 2
}

// tokenIndex returns the index of the first occurrence of token at or
// after position from, or -1.
func tokenIndex(words []string, token string, from int) int {
	for i := from; i < len(words); i++ {
		if words[i] == token {
			return i
		}
	}
	return -1
}
