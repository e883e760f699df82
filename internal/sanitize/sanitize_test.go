package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/devicely/internal/grammar"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "only whitespace", raw: " \n\t\n ", want: ""},
		{name: "plain script", raw: "launch chrome\nWAIT 3000\nswipe down", want: "launch chrome\nWAIT 3000\nswipe down"},
		{name: "whole reply fenced", raw: "```\nlaunch chrome\n```", want: ""},
		{name: "trailing fenced block", raw: "launch chrome\n```\nhome\n```", want: "launch chrome"},
		{name: "language tagged fence", raw: "```text\nhome\n```\nback", want: "back"},
		{name: "stray fence", raw: "launch chrome\n```\nhome", want: "launch chrome\nhome"},
		{name: "blank lines dropped", raw: "\n\nhome\n\n\nback\n\n", want: "home\nback"},
		{name: "crlf", raw: "home\r\nback\r\n", want: "home\nback"},
		{name: "prose retained", raw: "Here are your commands:\nhome", want: "Here are your commands:\nhome"},
		{name: "typed text retained", raw: "click Search\nhello world", want: "click Search\nhello world"},
		{name: "two fenced blocks", raw: "```a```home\n```b\nc```\nback", want: "home\nback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"```\nlaunch chrome\n```",
		"launch chrome\n```\nhome\n```",
		"````\nhome",
		"`````home``",
		"``\n```x```\n`",
		"  indented line\n\n\tWAIT 500  \n",
		"Sure! ```bash\nlaunch settings\n``` done ```",
		"a```b```c```d",
		"\r\n```\r\n\r\nhome\r\n",
		"launch chrome\r\r\nWAIT 3000",
		"home\r\r\r\n\r\nback\r",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeStripsCarriageReturns(t *testing.T) {
	assert.Equal(t, "launch chrome\nWAIT 3000", Sanitize("launch chrome\r\r\nWAIT 3000"))
	assert.Equal(t, "home\nback", Sanitize("home\r\n\r\nback\r\n"))
}

func TestSanitizeGrammarClosure(t *testing.T) {
	raw := "Okay, here you go:\n```\nignored\n```\nlaunch chrome\nWAIT 3000\nswipe down\nhome\nhello there"
	script, cmds := Parse(raw)

	require.Equal(t, "Okay, here you go:\nlaunch chrome\nWAIT 3000\nswipe down\nhome\nhello there", script)
	require.Len(t, cmds, 6)

	want := []grammar.Category{grammar.Text, grammar.Keyword, grammar.Wait, grammar.Keyword, grammar.Bare, grammar.Text}
	for i, cmd := range cmds {
		assert.Equal(t, want[i], cmd.Category, "line %d: %q", i, cmd.Line)
	}
}

func TestParseEmpty(t *testing.T) {
	script, cmds := Parse("```\nonly fenced\n```")
	assert.Empty(t, script)
	assert.Nil(t, cmds)
}
