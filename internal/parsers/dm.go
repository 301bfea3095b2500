package parsers

import (
	"bufio"
	"os"
	"strings"

	"jamtrace/internal/graph"
)

// DMParser handles the make-pass dialect (jam -dm, selected with the
// legacy "m" token): per-target binding, timestamp, and fate lines from
// the make phase:
//
//	bind -- <grist>target : /path/to/file
//	time -- <grist>target : Mon Nov  9 12:00:00 2015
//	made  stable target
//	made+ update target
//
// Only an "update" fate marks a target rebuilt; "stable" targets
// contribute nothing.
type DMParser struct {
	db *graph.Database
}

// NewDMParser returns a parser feeding the given database.
func NewDMParser(db *graph.Database) *DMParser {
	return &DMParser{db: db}
}

// Name implements Parser.
func (p *DMParser) Name() string { return "jam -dm parser" }

// ParseLogfile implements Parser.
func (p *DMParser) ParseLogfile(path string) error {
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

func (p *DMParser) parseLine(line string) {
	words := strings.Fields(line)
	if len(words) < 3 {
		return
	}
	switch words[0] {
	case "bind":
		if target, rest := p.splitInfoLine(line); target != nil {
			target.SetBinding(rest)
		}
	case "time":
		if target, rest := p.splitInfoLine(line); target != nil {
			target.SetTimestamp(rest)
		}
	case "made", "made+":
		if words[1] == "update" {
			p.db.GetTarget(words[2]).SetRebuiltReason("update")
		}
	}
}

// splitInfoLine decodes "bind -- T : rest" / "time -- T : rest" lines,
// returning the target and the text after the colon. The rest is sliced
// out of the raw line, not rejoined from fields: ctime timestamps carry
// meaningful runs of spaces.
func (p *DMParser) splitInfoLine(line string) (*graph.Target, string) {
	_, after, ok := strings.Cut(line, " -- ")
	if !ok {
		return nil, ""
	}
	name, rest, ok := strings.Cut(after, " : ")
	if !ok {
		return nil, ""
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ""
	}
	return p.db.GetTarget(name), rest
}
