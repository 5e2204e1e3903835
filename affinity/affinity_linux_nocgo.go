//go:build linux && !cgo
// +build linux,!cgo

// File: affinity/affinity_linux_nocgo.go
// Author: momentics <momentics@gmail.com>
//
// Pure-Go fallback for Linux builds with CGO disabled: pthread_setaffinity_np
// is only reachable through cgo, so there is nothing to call without it.

package affinity

import "errors"

// setAffinityPlatform is a stub for CGO-disabled Linux builds.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform (CGO_ENABLED=0)")
}
