package parsers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap/zaptest"

	"jamtrace/internal/graph"
)

func resolveSorted(tokens []string) ([]string, []string) {
	codes, diags := Resolve(tokens)
	sort.Strings(codes)
	return codes, diags
}

func TestResolveSingleCodes(t *testing.T) {
	codes, diags := resolveSorted([]string{"d", "c"})
	assert.Equal(t, []string{"c", "d"}, codes)
	assert.Empty(t, diags)
}

func TestResolveLegacyAlias(t *testing.T) {
	// "m" is kept for compatibility and means the same as "+3".
	codes, diags := resolveSorted([]string{"m"})
	assert.Equal(t, []string{"3"}, codes)
	assert.Empty(t, diags)
}

func TestResolveRepeatedAlias(t *testing.T) {
	// Only the first "m" is rewritten; a second one is an unknown token.
	codes, diags := resolveSorted([]string{"m", "m"})
	assert.Equal(t, []string{"3"}, codes)
	assert.Equal(t, []string{"m"}, diags)
}

func TestResolveExactLevel(t *testing.T) {
	codes, diags := resolveSorted([]string{"+", "5"})
	assert.Equal(t, []string{"5"}, codes)
	assert.Empty(t, diags)

	codes, diags = resolveSorted([]string{"+", "7"})
	assert.Empty(t, codes)
	assert.Equal(t, []string{"+7"}, diags)
}

func TestResolveRange(t *testing.T) {
	// A bare digit runs every numeric level up to it; levels with no
	// parser are reported individually.
	codes, diags := resolveSorted([]string{"5"})
	assert.Equal(t, []string{"3", "5"}, codes)
	assert.Equal(t, []string{"+2", "+4"}, diags)
}

func TestResolveRangeBelowMinimum(t *testing.T) {
	codes, diags := resolveSorted([]string{"1"})
	assert.Empty(t, codes)
	assert.Empty(t, diags)
}

func TestResolveUnknownToken(t *testing.T) {
	codes, diags := resolveSorted([]string{"q", "d"})
	assert.Equal(t, []string{"d"}, codes)
	assert.Equal(t, []string{"q"}, diags)
}

func TestResolveDuplicatesCollapse(t *testing.T) {
	codes, diags := resolveSorted([]string{"d", "d", "m", "+", "3"})
	assert.Equal(t, []string{"3", "d"}, codes)
	assert.Empty(t, diags)
}

func TestRunSelectedParsers(t *testing.T) {
	db := graph.NewDatabase()
	path := writeLog(t, `
>>>> Depends app.o : app.c
Depends "p" : "q" ;
`)
	err := Run(db, path, []string{"d", "5"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"app.c"}, targetNames(db.GetTarget("app.o").Deps))
	assert.Equal(t, []string{"q"}, targetNames(db.GetTarget("p").Deps))
}

func TestRunMissingFile(t *testing.T) {
	db := graph.NewDatabase()
	err := Run(db, "/nonexistent/jam.log", []string{"5"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
