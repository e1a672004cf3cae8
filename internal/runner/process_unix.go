//go:build !windows

package runner

import "syscall"

// sysProcAttr puts the solution in its own process group so a timeout can
// take down anything it spawned.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func killProcess(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}

const exeSuffix = ""
