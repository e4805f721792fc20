package mdbook

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/alnah/go-mdbook/internal/process"
)

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run starts name with args in dir and waits for it. A failure to start the
	// process wraps ErrConverterNotFound; any other error is the exit status.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The process runs in its own process group, killed as a whole when ctx is done.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- converter binary is user-configured
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	process.Isolate(cmd)

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrConverterNotFound, name, err)
	}

	err := cmd.Wait()
	return stdout.Bytes(), stderr.Bytes(), err
}
