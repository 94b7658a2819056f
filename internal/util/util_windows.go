//go:build windows

package util

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var procGetConsoleProcessList = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetConsoleProcessList")

// IsRunFromGUI reports whether the process is alone on its console. A shell
// shares its console with the programs it starts; Explorer gives a
// double-clicked binary a fresh one.
func IsRunFromGUI() bool {
	if procGetConsoleProcessList.Find() != nil {
		return false
	}
	pids := make([]uint32, 2)
	n, _, _ := procGetConsoleProcessList.Call(uintptr(unsafe.Pointer(&pids[0])), uintptr(len(pids)))
	return n == 1
}
