//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// Isolate makes context cancellation kill cmd and its child processes.
func Isolate(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillGroup(cmd.Process.Pid)
		return nil
	}
}

// KillGroup terminates the process tree rooted at pid.
func KillGroup(pid int) {
	// taskkill /T kills the tree; errors ignored, exec.Cmd.Wait reports the final state
	_ = exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
