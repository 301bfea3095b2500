package parsers

import (
	"bufio"
	"os"
	"strings"

	"jamtrace/internal/graph"
)

// DDParser handles the dependency-listing dialect (jam -dd): flat
// structured lines declaring the dependency and inclusion edges the build
// tool settled on, with quoted target names:
//
//	Depends "p" : "q" "s" "t" ;
//	Includes "a" : "b" ;
//
// The trailing semicolon is optional. Edges are recorded as the full cross
// product of the left and right sides, the same as the rule-flow dialect.
type DDParser struct {
	db *graph.Database
}

// NewDDParser returns a parser feeding the given database.
func NewDDParser(db *graph.Database) *DDParser {
	return &DDParser{db: db}
}

// Name implements Parser.
func (p *DDParser) Name() string { return "jam -dd parser" }

// ParseLogfile implements Parser.
func (p *DDParser) ParseLogfile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	return scanner.Err()
}

func (p *DDParser) parseLine(line string) {
	words := strings.Fields(line)
	if len(words) < 4 {
		return
	}
	var record func(lhs, rhs *graph.Target)
	switch words[0] {
	case "Depends":
		record = func(lhs, rhs *graph.Target) { lhs.AddDependency(rhs) }
	case "Includes":
		record = func(lhs, rhs *graph.Target) { lhs.AddInclusion(rhs) }
	default:
		return
	}
	colon := tokenIndex(words, ":", 2)
	if colon < 0 {
		return
	}
	for _, lhs := range names(words[1:colon]) {
		target := p.db.GetTarget(lhs)
		for _, rhs := range names(words[colon+1:]) {
			record(target, p.db.GetTarget(rhs))
		}
	}
}

// names strips quoting and the statement terminator from a token run.
func names(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == ";" {
			continue
		}
		out = append(out, strings.Trim(w, `"`))
	}
	return out
}
