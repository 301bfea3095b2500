package shell

import (
	"io"
	"os"
	"os/exec"
	"strings"
)

// emit delivers one command's buffered output: through the configured
// pager when paging is on and stdout is a terminal, directly otherwise.
func (s *Shell) emit(content string) {
	if content == "" {
		return
	}
	if !s.paging || !s.isTTY {
		io.WriteString(s.out, content)
		return
	}
	if err := runPager(s.pagerCmd, content); err != nil {
		// Pager unavailable; fall back to plain output.
		io.WriteString(s.out, content)
	}
}

// runPager pipes content through the pager command line.
func runPager(pager string, content string) error {
	fields := strings.Fields(pager)
	if len(fields) == 0 {
		fields = []string{"less", "-R"}
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
