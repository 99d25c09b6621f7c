package guard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another doorbell process is alive.
var ErrAlreadyRunning = errors.New("another doorbell instance is already running")

// processLister returns the process table.
type processLister func() ([]ps.Process, error)

// EnsureSingleInstance fails if another process runs the same executable as this one.
func EnsureSingleInstance() error {
	return ensureSingleInstance(ps.Processes, os.Getpid(), filepath.Base(os.Args[0]))
}

func ensureSingleInstance(list processLister, selfPID int, fallbackName string) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	// The process table may truncate names, so compare against our own entry.
	name := fallbackName

	for _, process := range processList {
		if process.Pid() == selfPID {
			name = process.Executable()

			break
		}
	}

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if process.Executable() == name {
			return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
		}
	}

	return nil
}
