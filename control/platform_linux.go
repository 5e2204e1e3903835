//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific debug probes, registered by scheduler.Initialize
// alongside the scheduler's own pool.pending probe.

package control

import (
	"runtime"
)

// RegisterPlatformProbes adds Linux-specific debug probes to dp.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
