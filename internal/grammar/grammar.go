// Package grammar defines the line-oriented command language understood by
// the downstream device executor.
//
// A script is a sequence of lines. Each non-blank line belongs to exactly
// one Category, decided by a static table of prefix rules. Lines that match
// no rule are Text: the executor types them into the focused field.
package grammar

import (
	"strconv"
	"strings"
)

// Category is the syntactic class of a single command line.
type Category string

const (
	// Bare commands take no argument ("home", "screenshot").
	Bare Category = "bare"
	// Keyword commands take a free-form argument after the keyword ("launch chrome").
	Keyword Category = "keyword"
	// Wait is "WAIT <milliseconds>".
	Wait Category = "wait"
	// Text is any other line, typed verbatim.
	Text Category = "text"
)

// Command is one classified script line.
type Command struct {
	Line     string   `json:"line"`
	Category Category `json:"category"`
	// Keyword is the leading word for Bare, Keyword and Wait lines.
	Keyword string `json:"keyword,omitempty"`
	// Arg is the remainder after the keyword.
	Arg string `json:"arg,omitempty"`
}

// WaitPrefix introduces a pause line.
const WaitPrefix = "WAIT"

// bareCommands are the argument-less verbs, matched against the whole line.
var bareCommands = []string{
	"home",
	"back",
	"screenshot",
	"restart",
	"recent",
	"notifications",
	"quicksettings",
	"getLocators",
	"darkmode",
	"lightmode",
}

// keywordCommands are verbs that take an argument.
var keywordCommands = []string{
	"launch",
	"kill",
	"url",
	"click",
	"tap",
	"longpress",
	"swipe",
	"rotate",
	"airplane",
	"wifi",
	"volume",
}

// SwipeDirections lists the accepted swipe arguments.
var SwipeDirections = []string{"up", "down", "left", "right"}

// keywordArgs restricts keywords that take one of a fixed set of arguments.
// Keywords absent from the table accept any non-empty argument.
var keywordArgs = map[string]map[string]struct{}{
	"swipe":    toSet(SwipeDirections),
	"rotate":   toSet([]string{"left", "right", "portrait", "landscape"}),
	"airplane": toSet([]string{"on", "off"}),
	"wifi":     toSet([]string{"on", "off"}),
	"volume":   toSet([]string{"up", "down", "mute"}),
}

var (
	bareSet    = toSet(bareCommands)
	keywordSet = toSet(keywordCommands)
)

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// BareCommands returns a copy of the argument-less verbs in table order.
func BareCommands() []string {
	return append([]string(nil), bareCommands...)
}

// KeywordCommands returns a copy of the argument-taking verbs in table order.
func KeywordCommands() []string {
	return append([]string(nil), keywordCommands...)
}

// Classify assigns line to its category. Matching is case-sensitive and
// operates on the line with surrounding whitespace removed. A keyword with an
// argument outside its allowed set is Text. Classify never fails: anything
// unrecognised is Text.
func Classify(line string) Command {
	trimmed := strings.TrimSpace(line)
	cmd := Command{Line: trimmed, Category: Text}

	word, rest, hasRest := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	switch {
	case word == WaitPrefix && hasRest && isDuration(rest):
		cmd.Category = Wait
	case !hasRest && isBare(word):
		cmd.Category = Bare
	case hasRest && rest != "" && isKeyword(word) && acceptsArg(word, rest):
		cmd.Category = Keyword
	default:
		return cmd
	}

	cmd.Keyword = word
	cmd.Arg = rest
	return cmd
}

// ClassifyAll classifies each non-blank line of script in order.
func ClassifyAll(script string) []Command {
	var cmds []Command
	for _, line := range strings.Split(script, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmds = append(cmds, Classify(line))
	}
	return cmds
}

// WaitMillis returns the pause length of a Wait command.
func (c Command) WaitMillis() (int, bool) {
	if c.Category != Wait {
		return 0, false
	}
	n, err := strconv.Atoi(c.Arg)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isBare(word string) bool {
	_, ok := bareSet[word]
	return ok
}

func isKeyword(word string) bool {
	_, ok := keywordSet[word]
	return ok
}

func acceptsArg(keyword, arg string) bool {
	allowed, ok := keywordArgs[keyword]
	if !ok {
		return true
	}
	_, ok = allowed[arg]
	return ok
}

func isDuration(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
