//go:build windows

package affinity

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// SetThreadAffinityMask and SetThreadPriority are not wrapped by
// golang.org/x/sys/windows, so they are resolved from kernel32 directly.
var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	procSetThreadPriority     = kernel32.NewProc("SetThreadPriority")
)

// Win32 THREAD_PRIORITY_* values, per processthreadsapi.h.
const (
	threadPriorityLowest       = -2
	threadPriorityBelowNormal  = -1
	threadPriorityNormal       = 0
	threadPriorityAboveNormal  = 1
	threadPriorityHighest      = 2
	threadPriorityTimeCritical = 15
)

// SetAffinity pins the calling OS thread to the logical cores set in mask,
// via SetThreadAffinityMask.
func SetAffinity(mask uint64) error {
	handle, err := windows.GetCurrentThread()
	if err != nil {
		return fmt.Errorf("affinity: GetCurrentThread: %w", err)
	}
	prev, _, callErr := procSetThreadAffinityMask.Call(uintptr(handle), uintptr(mask))
	if prev == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask: %w", callErr)
	}
	return nil
}

// SetPriority maps the oqpi thread-priority level onto the nearest Win32
// thread priority constant.
func SetPriority(level int) error {
	var winPriority int
	switch {
	case level <= 0:
		winPriority = threadPriorityLowest
	case level == 1:
		winPriority = threadPriorityBelowNormal
	case level == 2:
		winPriority = threadPriorityNormal
	case level == 3:
		winPriority = threadPriorityAboveNormal
	case level == 4:
		winPriority = threadPriorityHighest
	default:
		winPriority = threadPriorityTimeCritical
	}

	handle, err := windows.GetCurrentThread()
	if err != nil {
		return fmt.Errorf("affinity: GetCurrentThread: %w", err)
	}
	ok, _, callErr := procSetThreadPriority.Call(uintptr(handle), uintptr(winPriority))
	if ok == 0 {
		return fmt.Errorf("affinity: SetThreadPriority: %w", callErr)
	}
	return nil
}
