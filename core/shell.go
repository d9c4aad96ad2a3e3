package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/josephlewis42/mysh/core/history"
	"github.com/josephlewis42/mysh/core/logger"
	"github.com/josephlewis42/mysh/core/procs"
	"github.com/josephlewis42/mysh/core/shell"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
)

const helpCommand = "help"

// ErrInvalidCommand matches every error for a command rejected before it ran.
var ErrInvalidCommand = errors.New("invalid command")

// InvalidError is returned for commands that aren't recognized, have the wrong
// parameters, or can't be replayed. Nothing is executed for them.
type InvalidError struct {
	Raw    string
	Reason string
}

func (e *InvalidError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid command: %s", e.Raw)
	}
	return fmt.Sprintf("invalid command: %s: %s", e.Raw, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidCommand) true.
func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalidCommand
}

func invalidCommand(cmd *shell.Command, reason string) error {
	return &InvalidError{Raw: cmd.Raw, Reason: reason}
}

// EventRecorder stores session events.
type EventRecorder interface {
	Record(event logger.LogType) error
}

// LineReader supplies lines of input to the shell.
type LineReader interface {
	Readline() (string, error)
}

// Shell holds the state of a single interactive session.
type Shell struct {
	// Dir is the tracked working directory, it always ends in a separator.
	// Only movetodir changes it; the process working directory is untouched.
	Dir string

	History *history.Store
	Procs   *procs.Registry
	Spawner procs.Spawner
	Parser  shell.Parser

	// Fs is used to check directories given to movetodir.
	Fs afero.Fs

	// Events receives session events, it may be nil.
	Events EventRecorder

	// Limiter paces repeat launches, nil launches as fast as possible.
	Limiter *ratelimit.Bucket

	Stdout io.Writer
	Stderr io.Writer
	Color  bool

	quit        bool
	skipHistory bool
}

// NewShell creates a session tracking dir, with an empty process registry.
func NewShell(dir string, store *history.Store, spawner procs.Spawner, stdout, stderr io.Writer) *Shell {
	return &Shell{
		Dir:     withSeparator(dir),
		History: store,
		Procs:   procs.NewRegistry(),
		Spawner: spawner,
		Fs:      afero.NewOsFs(),
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// NewShellFromConfig creates a session in the process working directory,
// launching real processes and loading the history named by the
// configuration. A history that can't be loaded is reported but isn't fatal.
func NewShellFromConfig(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer, events EventRecorder) (*Shell, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	parser := shell.Parser{Quoting: cfg.Quoting}
	historyFs, historyPath := cfg.HistoryStorage()
	store := history.NewStore(historyFs, historyPath, parser)

	spawner := procs.NewOSSpawner(stdin, stdout, stderr)
	s := NewShell(wd, store, spawner, stdout, stderr)
	s.Parser = parser
	s.Events = events

	spawner.OnExit = func(p *procs.Process) {
		s.record(&logger.ProcessExited{Pid: p.Pid, ExitCode: p.ExitCode(), Background: true})
	}

	switch cfg.Color {
	case config.ColorAlways:
		s.Color = true
	case config.ColorAuto:
		s.Color = !color.NoColor
	}

	if cfg.RepeatRateLimit > 0 {
		s.Limiter = ratelimit.NewBucketWithRate(cfg.RepeatRateLimit, 1)
	}

	if err := store.Load(); err != nil {
		s.out().diagnostic("could not load history from %s: %v", historyPath, err)
		s.record(&logger.HistoryFailure{Op: "load", Error: err.Error()})
	}

	return s, nil
}

func (s *Shell) out() *printer {
	return &printer{stdout: s.Stdout, stderr: s.Stderr, color: s.Color}
}

func (s *Shell) record(event logger.LogType) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(event); err != nil {
		log.Printf("event log: %v", err)
	}
}

// Running reports whether the session is still accepting commands.
func (s *Shell) Running() bool {
	return !s.quit
}

// Run reads and handles lines until byebye or the end of input.
func (s *Shell) Run(lines LineReader) error {
	for !s.quit {
		line, err := lines.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			return err

		case len(strings.TrimSpace(line)) == 0:
			continue // empty line

		default:
			s.Handle(line)
		}
	}
	return nil
}

// Handle parses and executes one line of input, then decides whether the
// line belongs in the history. Every failure is reported to the user, none
// are returned.
func (s *Shell) Handle(line string) {
	if strings.TrimSpace(line) == helpCommand {
		WriteHelp(s.Stdout)
		return
	}

	cmd, err := s.Parser.Parse(line)
	if err != nil {
		s.reject(&InvalidError{Raw: line, Reason: err.Error()}, cmd)
		return
	}

	s.skipHistory = false
	err = s.Execute(cmd)

	var invalid *InvalidError
	switch {
	case errors.As(err, &invalid):
		s.reject(invalid, cmd)
		return
	case err != nil:
		s.out().diagnostic("%s: %v", cmd.Name(), err)
	}

	if cmd.Verb == shell.VerbByeBye || s.skipHistory {
		return
	}
	s.History.Append(cmd)
}

func (s *Shell) reject(err *InvalidError, cmd *shell.Command) {
	if err.Reason == "" {
		s.out().diagnostic("Invalid command: %s", err.Raw)
	} else {
		s.out().diagnostic("Invalid command: %s: %s", err.Raw, err.Reason)
	}

	s.record(&logger.InvalidCommand{Raw: cmd.Raw, Name: cmd.Name(), Error: err.Reason})
}

// Execute validates the command and runs the builtin for its verb.
func (s *Shell) Execute(cmd *shell.Command) error {
	return s.execute(cmd, nil)
}

func (s *Shell) execute(cmd *shell.Command, replayOf *int) error {
	builtin, ok := AllBuiltins[cmd.Verb]
	switch {
	case !ok:
		return invalidCommand(cmd, "")
	case !cmd.Valid():
		return invalidCommand(cmd, fmt.Sprintf("usage: %s %s", cmd.Verb, cmd.Verb.Usage()))
	}

	s.record(&logger.RunCommand{Command: cmd.Tokens, ReplayOf: replayOf})
	return builtin.Main(s, cmd)
}

// Close saves the history. Background processes are left running.
func (s *Shell) Close() error {
	if err := s.History.Save(); err != nil {
		s.out().diagnostic("could not save history to %s: %v", s.History.Path(), err)
		s.record(&logger.HistoryFailure{Op: "save", Error: err.Error()})
		return err
	}
	return nil
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
