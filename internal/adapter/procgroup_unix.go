//go:build unix

package adapter

import (
	"errors"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the tool in its own process group so that
// cancellation reaches the processes it spawns.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) error {
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}

	return err
}
