package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamtrace/internal/graph"
)

func TestDDDependsAndIncludes(t *testing.T) {
	db := graph.NewDatabase()
	path := writeLog(t, `
Depends "p" : "q" "s" "t" ;
Includes "a" : "b" ;
`)
	require.NoError(t, NewDDParser(db).ParseLogfile(path))

	assert.Equal(t, []string{"q", "s", "t"}, targetNames(db.GetTarget("p").Deps))
	assert.Equal(t, []string{"b"}, targetNames(db.GetTarget("a").Incs))
}

func TestDDCrossProduct(t *testing.T) {
	db := graph.NewDatabase()
	path := writeLog(t, `
Depends "a" "b" : "c" "d" ;
`)
	require.NoError(t, NewDDParser(db).ParseLogfile(path))

	assert.Equal(t, []string{"c", "d"}, targetNames(db.GetTarget("a").Deps))
	assert.Equal(t, []string{"c", "d"}, targetNames(db.GetTarget("b").Deps))
}

func TestDDOptionalSemicolonAndRepeats(t *testing.T) {
	db := graph.NewDatabase()
	path := writeLog(t, `
Depends "p" : "q"
Depends "p" : "q" ;
`)
	require.NoError(t, NewDDParser(db).ParseLogfile(path))

	assert.Equal(t, []string{"q"}, targetNames(db.GetTarget("p").Deps))
}

func TestDDIgnoresNoise(t *testing.T) {
	db := graph.NewDatabase()
	path := writeLog(t, `
...patience...
Depends "p"
don't know how to make all
`)
	require.NoError(t, NewDDParser(db).ParseLogfile(path))
	assert.Equal(t, "Database(0 targets, 0 rules)", db.String())
}
