package shell

import (
	"github.com/charmbracelet/glamour"
)

const topHelp = `# jamtrace shell

Query the parsed trace graph. Patterns are regular expressions matched
anywhere in a name.

## Commands

| Command | Effect |
|---------|--------|
| ` + "`targets PATTERN`" + ` | enter the submode for a matching target |
| ` + "`rebuilt-targets PATTERN`" + ` | same, restricted to rebuilt targets |
| ` + "`rules PATTERN`" + ` | enter the submode for a matching rule |
| ` + "`paging on` / `paging off`" + ` | page command output through $PAGER |
| ` + "`help`" + ` | this text |
| ` + "`exit`" + ` | leave the shell (also ctrl-d) |
`

const targetHelp = `# target submode

| Command | Effect |
|---------|--------|
| ` + "`deps`" + ` | direct dependencies, includes unwound |
| ` + "`deps-rebuilt`" + ` | direct dependencies that were rebuilt |
| ` + "`dep-chains [max_depth=N]`" + ` | all dependency chains below this target |
| ` + "`dep-chains-rebuilt`" + ` | chains of rebuilt targets only |
| ` + "`rebuild-chains`" + ` | the build tool's own rebuild blame chain |
| ` + "`show`" + ` | all recorded metadata |
| ` + "`alternative-grists`" + ` | other grists carrying this filename |
| ` + "`switch-to-target PATTERN`" + ` | jump to another target |
| ` + "`exit`" + ` | back to the previous mode |
`

const ruleHelp = `# rule submode

| Command | Effect |
|---------|--------|
| ` + "`show`" + ` | rule name and call count |
| ` + "`calls`" + ` | choose one invocation to inspect |
| ` + "`switch-to-target PATTERN`" + ` | jump to a target |
| ` + "`exit`" + ` | back to the previous mode |
`

const callHelp = `# rule-call submode

| Command | Effect |
|---------|--------|
| ` + "`show`" + ` | full argument groups, caller, and sub-calls |
| ` + "`targets`" + ` | the call's target arguments |
| ` + "`sources`" + ` | the call's source arguments |
| ` + "`call-stack`" + ` | the chain of calls leading here |
| ` + "`exit`" + ` | back to the previous mode |
`

// renderHelp renders a markdown help page for the terminal. If styled
// rendering fails the raw markdown is still readable.
func (s *Shell) renderHelp(markdown string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
