package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/josephlewis42/mysh/core/history"
	"github.com/josephlewis42/mysh/core/logger"
	"github.com/josephlewis42/mysh/core/procs"
	"github.com/josephlewis42/mysh/core/shell"
	"github.com/pborman/getopt/v2"
)

// ErrNotRegistered is returned when dalek is given a PID this session didn't
// launch.
var ErrNotRegistered = errors.New("could not terminate")

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[shell.Verb]Builtin)

// Builtin is a command implemented by the shell. Main is only called with
// commands that have the right number of parameters for their verb.
type Builtin interface {
	Main(s *Shell, cmd *shell.Command) error
}

type BuiltinFunc func(s *Shell, cmd *shell.Command) error

func (f BuiltinFunc) Main(s *Shell, cmd *shell.Command) error {
	return f(s, cmd)
}

var _ Builtin = (BuiltinFunc)(nil)

// MoveToDir changes the tracked working directory. Absolute paths are used as
// given. Anything else, including paths starting with ".", is resolved
// against the tracked directory rather than the process working directory.
func MoveToDir(s *Shell, cmd *shell.Command) error {
	target := cmd.Params()[0]
	dir := s.resolveDir(target)

	info, err := s.Fs.Stat(dir)
	switch {
	case err != nil:
		return fmt.Errorf("directory %s: not found", target)
	case !info.IsDir():
		return fmt.Errorf("%s: not a directory", target)
	}

	s.Dir = dir
	return nil
}

func (s *Shell) resolveDir(target string) string {
	dir := target
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.Dir, dir)
	}
	return withSeparator(filepath.Clean(dir))
}

// WhereAmI prints the tracked working directory.
func WhereAmI(s *Shell, cmd *shell.Command) error {
	fmt.Fprintln(s.Stdout, s.Dir)
	return nil
}

// History lists previous commands, or clears them with -c.
func History(s *Shell, cmd *shell.Command) error {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history and delete the history file")

	if err := opts.Getopt(cmd.Tokens, nil); err != nil {
		return invalidCommand(cmd, err.Error())
	}
	if opts.NArgs() > 0 {
		return invalidCommand(cmd, fmt.Sprintf("unexpected argument %q", opts.Arg(0)))
	}

	if *clear {
		s.skipHistory = true
		if err := s.History.Clear(); err != nil {
			return err
		}
		s.out().report("History cleared")
		return nil
	}

	WriteHistory(s.Stdout, s.History.List())
	return nil
}

// ByeBye ends the session once the current line is handled.
func ByeBye(s *Shell, cmd *shell.Command) error {
	s.quit = true
	return nil
}

// Replay re-executes a command from the history by index.
func Replay(s *Shell, cmd *shell.Command) error {
	idx, err := strconv.Atoi(cmd.Params()[0])
	if err != nil {
		return invalidCommand(cmd, "history index must be a number")
	}

	target, err := s.History.Find(idx)
	var chain *history.ReplayChainError
	switch {
	case errors.As(err, &chain):
		return invalidCommand(cmd, chain.Error())
	case err != nil:
		return err
	}

	return s.execute(target, &idx)
}

// Start runs a program in the foreground and waits for it to exit.
func Start(s *Shell, cmd *shell.Command) error {
	path, argv := s.program(cmd.Params())

	state, err := s.Spawner.Run(path, argv)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", argv[0], err)
	}

	if state != nil {
		s.record(&logger.ProcessStarted{Pid: state.Pid(), Path: path, Argv: argv})
		s.record(&logger.ProcessExited{Pid: state.Pid(), ExitCode: state.ExitCode()})
	}
	return nil
}

// Background launches a program without waiting for it and prints its PID.
func Background(s *Shell, cmd *shell.Command) error {
	pid, err := s.LaunchBackground(cmd.Params())
	if err != nil {
		return err
	}

	s.out().report("PID: %d", pid)
	return nil
}

// LaunchBackground starts the program named by params[0] and adds it to the
// process registry.
func (s *Shell) LaunchBackground(params []string) (int, error) {
	path, argv := s.program(params)

	proc, err := s.Spawner.Start(path, argv)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", argv[0], err)
	}

	s.Procs.Add(proc)
	s.record(&logger.ProcessStarted{Pid: proc.Pid, Path: path, Argv: argv, Background: true})
	return proc.Pid, nil
}

// program resolves the executable for a start or background command. A lone
// relative program name is looked up in the tracked directory; with
// parameters, the name is left for the PATH search.
func (s *Shell) program(params []string) (string, []string) {
	argv := append([]string(nil), params...)

	path := argv[0]
	if len(argv) == 1 && !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	return path, argv
}

// Dalek terminates a background process launched by this session.
func Dalek(s *Shell, cmd *shell.Command) error {
	pid, err := procs.ParsePID(cmd.Params()[0])
	if err != nil {
		return invalidCommand(cmd, "PID must be a positive 32-bit number")
	}

	return s.Terminate(pid)
}

// Terminate sends SIGTERM to pid and removes it from the registry.
//
// Processes that already exited aren't signaled because their PID may have
// been reused. A PID this session never launched is still signaled, but
// ErrNotRegistered is returned. PIDs that don't name a single process are
// rejected before anything is signaled.
func (s *Shell) Terminate(pid int) error {
	if !procs.ValidPID(pid) {
		return fmt.Errorf("%w: %d", procs.ErrInvalidPID, pid)
	}

	proc, registered := s.Procs.Remove(pid)
	event := &logger.ProcessSignaled{Pid: pid, Registered: registered}

	if registered && proc.Exited() {
		event.Skipped = true
	} else {
		if !registered {
			// Collect it first in case it's a zombie of ours.
			s.Spawner.Poll(pid)
		}
		if err := s.Spawner.Signal(pid); err != nil {
			event.Error = err.Error()
		}
	}
	s.record(event)

	if !registered {
		return fmt.Errorf("%w PID %d", ErrNotRegistered, pid)
	}
	return nil
}

// DalekAll terminates every registered background process.
func DalekAll(s *Shell, cmd *shell.Command) error {
	pids := s.TerminateAll()

	var sb strings.Builder
	for _, pid := range pids {
		fmt.Fprintf(&sb, " %d", pid)
	}
	s.out().report("Exterminating %d processes:%s", len(pids), sb.String())
	return nil
}

// TerminateAll empties the registry and signals each process that was in it,
// returning their PIDs in launch order.
func (s *Shell) TerminateAll() []int {
	var pids []int
	for _, proc := range s.Procs.Drain() {
		event := &logger.ProcessSignaled{Pid: proc.Pid, Registered: true}
		if proc.Exited() {
			event.Skipped = true
		} else if err := s.Spawner.Signal(proc.Pid); err != nil {
			event.Error = err.Error()
		}
		s.record(event)

		pids = append(pids, proc.Pid)
	}
	return pids
}

// Repeat launches a program in the background N times. The second parameter
// names the verb but background is always used.
func Repeat(s *Shell, cmd *shell.Command) error {
	params := cmd.Params()

	n, err := strconv.Atoi(params[0])
	if err != nil || n < 0 {
		return invalidCommand(cmd, "count must be a non-negative number")
	}

	launch := shell.FromTokens(append([]string{shell.VerbBackground.String()}, params[2:]...))
	if !launch.Valid() {
		return invalidCommand(cmd, "no program to run")
	}

	pids, err := s.LaunchRepeated(n, launch.Params())
	for _, pid := range pids {
		s.out().report("PID: %d", pid)
	}
	return err
}

// LaunchRepeated starts the program n times, stopping at the first failure.
// Launches are paced by the shell's limiter.
func (s *Shell) LaunchRepeated(n int, params []string) ([]int, error) {
	var pids []int
	for i := 0; i < n; i++ {
		if s.Limiter != nil {
			s.Limiter.Wait(1)
		}

		pid, err := s.LaunchBackground(params)
		if err != nil {
			return pids, fmt.Errorf("launch %d of %d: %w", i+1, n, err)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

func init() {
	AllBuiltins[shell.VerbMoveToDir] = BuiltinFunc(MoveToDir)
	AllBuiltins[shell.VerbWhereAmI] = BuiltinFunc(WhereAmI)
	AllBuiltins[shell.VerbHistory] = BuiltinFunc(History)
	AllBuiltins[shell.VerbByeBye] = BuiltinFunc(ByeBye)
	AllBuiltins[shell.VerbReplay] = BuiltinFunc(Replay)
	AllBuiltins[shell.VerbStart] = BuiltinFunc(Start)
	AllBuiltins[shell.VerbBackground] = BuiltinFunc(Background)
	AllBuiltins[shell.VerbDalek] = BuiltinFunc(Dalek)
	AllBuiltins[shell.VerbRepeat] = BuiltinFunc(Repeat)
	AllBuiltins[shell.VerbDalekAll] = BuiltinFunc(DalekAll)
}
