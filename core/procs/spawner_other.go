//go:build !unix

package procs

import (
	"fmt"
	"os"
)

// Poll implements Spawner.Poll. Without a non-blocking wait the status of
// unregistered children is unknown.
func (s *OSSpawner) Poll(pid int) (bool, error) {
	return false, nil
}

// Signal implements Spawner.Signal by killing the process.
func (s *OSSpawner) Signal(pid int) error {
	if !ValidPID(pid) {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Kill()
}
