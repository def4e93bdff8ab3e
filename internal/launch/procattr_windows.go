package launch

import (
	"os/exec"
	"syscall"
)

// setDetachedProcAttr configures the child to run detached from the launcher's
// console and process group.
func setDetachedProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | 0x00000008, // 0x00000008 is DETACHED_PROCESS
	}
}
