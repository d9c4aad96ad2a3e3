// Package shell turns lines of input into commands the dispatcher can run.
package shell

import (
	"strings"

	"github.com/anmitsu/go-shlex"
)

// Command is a parsed line of input.
//
// Commands are immutable after parsing except for their replay index, which
// the history assigns each time it is listed or searched.
type Command struct {
	// Raw holds the line exactly as it was entered.
	Raw string
	// Tokens holds the words of the line, Tokens[0] is the command name.
	Tokens []string
	// Verb is the operation named by Tokens[0], VerbNone if unrecognized.
	Verb Verb

	replayIndex    int
	hasReplayIndex bool
}

// Name returns the first word of the command or an empty string.
func (c *Command) Name() string {
	if len(c.Tokens) == 0 {
		return ""
	}
	return c.Tokens[0]
}

// Params returns a copy of the words following the command name.
func (c *Command) Params() []string {
	if len(c.Tokens) < 2 {
		return nil
	}
	return append([]string(nil), c.Tokens[1:]...)
}

// Valid reports whether the command names a known verb with an acceptable
// number of parameters.
func (c *Command) Valid() bool {
	if len(c.Tokens) == 0 {
		return false
	}
	return c.Verb.Accepts(len(c.Tokens) - 1)
}

// ReplayIndex returns the index last assigned by the history, if any.
func (c *Command) ReplayIndex() (int, bool) {
	return c.replayIndex, c.hasReplayIndex
}

// SetReplayIndex records the command's position in the history.
func (c *Command) SetReplayIndex(i int) {
	c.replayIndex = i
	c.hasReplayIndex = true
}

// Parser splits lines into Commands.
type Parser struct {
	// Quoting splits words using POSIX quoting rules rather than plain
	// whitespace.
	Quoting bool
}

// Parse builds a Command from a line. Blank lines produce a Command with no
// tokens, which is never valid. An error is only returned in quoting mode
// when the line can't be split, in which case the Command has no tokens.
func (p Parser) Parse(line string) (*Command, error) {
	cmd := &Command{Raw: line}

	if p.Quoting {
		tokens, err := shlex.Split(line, true)
		if err != nil {
			return cmd, err
		}
		cmd.Tokens = tokens
	} else {
		cmd.Tokens = strings.Fields(line)
	}

	cmd.Verb = LookupVerb(cmd.Name())
	return cmd, nil
}

// Parse splits the line on runs of whitespace.
func Parse(line string) *Command {
	cmd, _ := Parser{}.Parse(line)
	return cmd
}

// FromTokens builds a Command from words that were already split, the raw
// text is the words joined by single spaces.
func FromTokens(tokens []string) *Command {
	cmd := &Command{
		Raw:    strings.Join(tokens, " "),
		Tokens: append([]string(nil), tokens...),
	}
	cmd.Verb = LookupVerb(cmd.Name())
	return cmd
}
