package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/mysh/core/history"
	"github.com/josephlewis42/mysh/core/shell"
)

// indent prefixes every report and diagnostic line.
const indent = "  "

var (
	ColorBoldRed = color.New(color.FgRed, color.Bold)
	ColorGreen   = color.New(color.FgGreen)
)

type printer struct {
	stdout io.Writer
	stderr io.Writer
	color  bool
}

func (p *printer) line(w io.Writer, c *color.Color, format string, a ...interface{}) {
	fmt.Fprint(w, indent)
	if p.color {
		c.Fprintf(w, format, a...)
	} else {
		fmt.Fprintf(w, format, a...)
	}
	fmt.Fprintln(w)
}

// diagnostic writes an error line to stderr.
func (p *printer) diagnostic(format string, a ...interface{}) {
	p.line(p.stderr, ColorBoldRed, format, a...)
}

// report writes an informational line to stdout.
func (p *printer) report(format string, a ...interface{}) {
	p.line(p.stdout, ColorGreen, format, a...)
}

// WriteBanner writes the greeting shown when an interactive shell starts.
func WriteBanner(w io.Writer) {
	fmt.Fprintln(w, "===== Welcome to mysh =====")
	fmt.Fprintln(w, `Type "help" to list valid commands`)
	fmt.Fprintln(w)
}

// WriteHelp writes the list of valid commands.
func WriteHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sThe following are valid commands:\n", indent)
	for _, v := range shell.Verbs() {
		line := fmt.Sprintf("%s%-10s %s", indent, v, v.Usage())
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	fmt.Fprintln(w)
}

// WriteHistory writes a history listing. Nothing is written for an empty
// history.
func WriteHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(w, "%sHistory:\n", indent)
	for _, e := range entries {
		fmt.Fprintf(w, "%s%d: %s\n", indent, e.Index, e.Raw)
	}
}
