//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific debug probes, registered by scheduler.Initialize
// alongside the scheduler's own pool.pending probe.

package control

import (
	"runtime"
)

// RegisterPlatformProbes adds Windows-specific debug probes to dp.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
