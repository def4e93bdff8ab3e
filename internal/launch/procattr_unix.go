//go:build !windows

package launch

import (
	"os/exec"
	"syscall"
)

// setDetachedProcAttr starts the child in its own session so it outlives the
// launcher.
func setDetachedProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
