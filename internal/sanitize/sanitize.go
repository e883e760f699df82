// Package sanitize normalises raw model output into a command script.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/nadzzz/devicely/internal/grammar"
)

const fence = "```"

// fencedBlock matches a paired ``` region, shortest first, across lines.
var fencedBlock = regexp.MustCompile("(?s)```.*?```")

// Sanitize turns a raw model reply into a newline-joined script.
//
// Paired fenced regions are removed with their content, then any leftover
// fence markers. Trailing carriage returns are stripped from every line and
// lines blank after trimming are dropped; every other line is kept in order,
// so unknown lines survive as typed text. The joined result is trimmed.
// Sanitize is total and idempotent.
func Sanitize(raw string) string {
	s := fencedBlock.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, fence, "")

	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Parse sanitizes raw and classifies each resulting line.
func Parse(raw string) (string, []grammar.Command) {
	script := Sanitize(raw)
	if script == "" {
		return "", nil
	}
	return script, grammar.ClassifyAll(script)
}
