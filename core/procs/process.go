// Package procs launches child processes and tracks the ones running in the
// background.
package procs

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// ErrInvalidPID is returned for PIDs outside the range of a single process.
// Zero and negative values address process groups, and values above
// MaxInt32 are truncated by the kernel's 32-bit pid_t.
var ErrInvalidPID = errors.New("invalid PID")

// ValidPID reports whether pid names exactly one process.
func ValidPID(pid int) bool {
	return pid > 0 && pid <= math.MaxInt32
}

// ParsePID parses a decimal PID, rejecting anything ValidPID doesn't accept.
func ParsePID(s string) (int, error) {
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil || !ValidPID(int(pid)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPID, s)
	}
	return int(pid), nil
}

// Process is a child started by the shell.
type Process struct {
	// Pid is the operating system process identifier.
	Pid int
	// Path is the program that was executed.
	Path string
	// Argv holds the arguments the program was started with, including argv[0].
	Argv []string
	// Started is when the process was launched.
	Started time.Time

	done  chan struct{}
	state *os.ProcessState
	err   error
}

// NewProcess creates a Process record for a running child.
func NewProcess(pid int, path string, argv []string) *Process {
	return &Process{
		Pid:     pid,
		Path:    path,
		Argv:    append([]string(nil), argv...),
		Started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Exited reports whether the process has terminated and been collected.
// It never blocks.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the process has been collected.
func (p *Process) Wait() (*os.ProcessState, error) {
	<-p.done
	return p.state, p.err
}

// ExitCode returns the exit code of a collected process, or -1 if it's still
// running or was killed by a signal.
func (p *Process) ExitCode() int {
	if !p.Exited() || p.state == nil {
		return -1
	}
	return p.state.ExitCode()
}

func (p *Process) exit(state *os.ProcessState, err error) {
	p.state = state
	p.err = err
	close(p.done)
}
