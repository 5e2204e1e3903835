// Package control
// Author: momentics <momentics@gmail.com>
//
// Immutable scheduler configuration, the logging sink Initialize emits
// its one startup line through, a metrics registry for pool stats, and
// debug probe registration for runtime introspection.
//
// This package is build-tag-partitioned: RegisterPlatformProbes is
// defined only for Linux and Windows builds.
package control
