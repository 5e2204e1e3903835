// File: control/logsink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LogSink is the callable the scheduler emits its one Initialize message
// through. Grounded on the teacher's pervasive log.Printf("[facade] ...")
// convention (facade/hioload.go, internal/concurrency/pin_windows.go) —
// no third-party logging library appears anywhere in the teacher's own
// dependency set, so none is introduced here either.

package control

import "log"

// LogSink receives a printf-style format string and its arguments.
type LogSink func(format string, args ...any)

// DefaultLogSink writes through the standard library logger, prefixed
// the way the teacher's own components prefix their log lines.
func DefaultLogSink(format string, args ...any) {
	log.Printf("[jobsystem] "+format, args...)
}
