// Package logger provides the core's leveled logging surface, a thin
// wrapper over glog's Infof/Warningf/Errorf/V(n) API shape. Only the
// cmd/nescore host calls it - ROM load results, save/load state failures,
// command errors; the emulator packages never log, so nothing is logged
// on the hot tick path.
package logger

import "github.com/golang/glog"

// Infof logs an informational message.
func Infof(format string, args ...any) { glog.Infof(format, args...) }

// Warningf logs a warning - recoverable but unexpected conditions, such as
// a failed save-state write or load.
func Warningf(format string, args ...any) { glog.Warningf(format, args...) }

// Errorf logs an error - used at the public load-time error boundary
// before the caller's error value is returned.
func Errorf(format string, args ...any) { glog.Errorf(format, args...) }

// V reports whether verbose logging at the given level is enabled, mirroring
// glog.V(n).Infof's gating idiom for chatty per-frame diagnostics.
func V(level glog.Level) glog.Verbose { return glog.V(level) }

// Flush flushes any pending log writes; call before process exit.
func Flush() { glog.Flush() }
