//go:build windows
// +build windows

// File: internal/concurrency/pin_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows thread pinning via SetThreadAffinityMask. Only the first 64 logical
// processors are addressable through a single affinity mask.

package concurrency

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

func allowedCPUs() []int {
	n := int(windows.GetActiveProcessorCount(windows.ALL_PROCESSOR_GROUPS))
	if n > 64 {
		n = 64
	}
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return cpus
}

func pinCurrentThread(cpu int) error {
	hThread, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpu)
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}
