//go:build unix

package procs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Poll implements Spawner.Poll using a non-blocking wait.
func (s *OSSpawner) Poll(pid int) (bool, error) {
	if !ValidPID(pid) {
		return false, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}

	var status unix.WaitStatus
	wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
	if err != nil {
		return false, err
	}
	return wpid == pid, nil
}

// Signal implements Spawner.Signal by sending SIGTERM.
func (s *OSSpawner) Signal(pid int) error {
	if !ValidPID(pid) {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return unix.Kill(pid, unix.SIGTERM)
}
