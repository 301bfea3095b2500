// Package parsers turns Jam debug-trace text into graph mutations. Each
// dialect of the trace output (one per jam -d level) has its own parser;
// all of them converge on the same graph.Database mutators, so any number
// of parsers can run over the same file and store. Lines a parser does not
// recognize are ignored, never errors: trace files mix many line kinds.
package parsers

import (
	"strconv"

	"go.uber.org/zap"

	"jamtrace/internal/graph"
)

// Parser scans one trace file and populates the database. Re-invoking a
// parser is safe: target and edge creation is idempotent.
type Parser interface {
	// Name identifies the parser in diagnostics and logs.
	Name() string
	// ParseLogfile streams the file line by line, mutating the database.
	// Only a file-level read failure is an error.
	ParseLogfile(path string) error
}

// registry maps dialect codes to parser constructors. The codes mirror the
// jam -d flag characters the dialects were captured with.
var registry = map[string]func(*graph.Database) Parser{
	"d": func(db *graph.Database) Parser { return NewDDParser(db) },
	"c": func(db *graph.Database) Parser { return NewDCParser(db) },
	"3": func(db *graph.Database) Parser { return NewDMParser(db) },
	"5": func(db *graph.Database) Parser { return NewD5Parser(db) },
}

// minRangeLevel is the lowest numeric level a bare-digit range token covers.
const minRangeLevel = 2

// Resolve maps dialect-selection tokens to the set of dialect codes to run.
// Token rules:
//   - a recognized code selects that dialect;
//   - "m" is a legacy alias for "+" followed by "3";
//   - a bare digit N selects every registered numeric level in 2..N;
//   - a digit preceded by "+" selects exactly that level;
//   - anything else (including a dangling "+") is reported in diags and
//     otherwise ignored.
//
// Duplicate selections collapse; diags holds one entry per unknown token.
func Resolve(tokens []string) (codes []string, diags []string) {
	// Only the first "m" is rewritten; any further occurrence falls
	// through to the unknown-token diagnostic.
	expanded := make([]string, 0, len(tokens)+2)
	alias := false
	for _, tok := range tokens {
		if tok == "m" && !alias {
			alias = true
			continue
		}
		expanded = append(expanded, tok)
	}
	if alias {
		expanded = append(expanded, "+", "3")
	}

	selected := make(map[string]bool)
	for i, tok := range expanded {
		n, err := strconv.Atoi(tok)
		if err == nil && n >= 0 {
			if i > 0 && expanded[i-1] == "+" {
				// Specific numeric level.
				if _, ok := registry[tok]; ok {
					selected[tok] = true
				} else {
					diags = append(diags, "+"+tok)
				}
				continue
			}
			// Range: every registered level up to n.
			for level := minRangeLevel; level <= n; level++ {
				code := strconv.Itoa(level)
				if _, ok := registry[code]; ok {
					selected[code] = true
				} else {
					diags = append(diags, "+"+code)
				}
			}
			continue
		}
		if _, ok := registry[tok]; ok {
			selected[tok] = true
		} else if tok != "+" {
			diags = append(diags, tok)
		}
	}

	for code := range selected {
		codes = append(codes, code)
	}
	return codes, diags
}

// Run resolves the dialect tokens, reports unknown ones, and runs each
// selected parser once over the log file. Unknown tokens never abort the
// run; the first parse failure (an unreadable file) does.
func Run(db *graph.Database, path string, tokens []string, logger *zap.Logger) error {
	codes, diags := Resolve(tokens)
	for _, tok := range diags {
		logger.Warn("no parser exists for dialect option", zap.String("option", tok))
	}
	for _, code := range codes {
		parser := registry[code](db)
		logger.Info("running parser",
			zap.String("parser", parser.Name()),
			zap.String("logfile", path))
		if err := parser.ParseLogfile(path); err != nil {
			return err
		}
	}
	return nil
}
