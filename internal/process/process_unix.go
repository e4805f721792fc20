//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate places cmd in a new process group and makes context cancellation kill
// the whole group instead of only the direct child.
func Isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillGroup(cmd.Process.Pid)
		return nil
	}
}

// KillGroup sends SIGKILL to the process group led by pid.
func KillGroup(pid int) {
	// Best-effort; exec.Cmd.Wait reports the final state
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
