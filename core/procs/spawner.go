package procs

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Spawner is the set of OS process primitives the shell depends on.
type Spawner interface {
	// Run executes the program and blocks until it exits. An error is only
	// returned if the program couldn't be started; a non-zero exit status is
	// reported through the returned state.
	Run(path string, argv []string) (*os.ProcessState, error)

	// Start executes the program without waiting for it. The child is
	// collected asynchronously once it exits.
	Start(path string, argv []string) (*Process, error)

	// Poll checks, without blocking, whether the given child has exited,
	// collecting it if so.
	Poll(pid int) (exited bool, err error)

	// Signal asks the process with the given PID to terminate.
	Signal(pid int) error
}

// OSSpawner starts real operating system processes.
type OSSpawner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the environment of children, nil uses the shell's environment.
	Env []string

	// OnExit, if set, is called from the reaper goroutine after a background
	// process has been collected.
	OnExit func(p *Process)
}

var _ Spawner = (*OSSpawner)(nil)

// NewOSSpawner creates a spawner whose children share the given streams.
func NewOSSpawner(stdin io.Reader, stdout, stderr io.Writer) *OSSpawner {
	return &OSSpawner{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

func (s *OSSpawner) command(path string, argv []string) *exec.Cmd {
	cmd := exec.Command(path)
	// Keep argv[0] as typed rather than the resolved path.
	cmd.Args = append([]string(nil), argv...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	cmd.Env = s.Env
	return cmd
}

// Run implements Spawner.Run.
func (s *OSSpawner) Run(path string, argv []string) (*os.ProcessState, error) {
	cmd := s.command(path, argv)
	cmd.Stdin = s.Stdin

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return cmd.ProcessState, err
	}
	return cmd.ProcessState, nil
}

// Start implements Spawner.Start.
func (s *OSSpawner) Start(path string, argv []string) (*Process, error) {
	// Background children never read from the terminal.
	cmd := s.command(path, argv)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	proc := NewProcess(cmd.Process.Pid, path, argv)
	go func() {
		err := cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}
		proc.exit(cmd.ProcessState, err)

		if s.OnExit != nil {
			s.OnExit(proc)
		}
	}()

	return proc, nil
}
