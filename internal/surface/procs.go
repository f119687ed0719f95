package surface

import (
	"fmt"

	"github.com/mitchellh/go-ps"
)

// FindProcesses returns the PIDs of running processes whose executable is
// name.
func FindProcesses(name string) ([]int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	var pids []int
	for _, p := range processes {
		if p.Executable() == name {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}
