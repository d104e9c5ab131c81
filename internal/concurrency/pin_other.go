//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/pin_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub implementation for platforms without thread affinity.

package concurrency

func allowedCPUs() []int {
	return nil
}

func pinCurrentThread(cpu int) error {
	return ErrAffinityNotSupported
}
