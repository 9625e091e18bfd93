//go:build linux

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetAffinity pins the calling OS thread to the logical cores set in the
// mask bitset, using sched_setaffinity.
func SetAffinity(mask uint64) error {
	var set unix.CPUSet
	set.Zero()
	for core := 0; core < 64; core++ {
		if mask&(1<<uint(core)) != 0 {
			set.Set(core)
		}
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity: %w", err)
	}
	return nil
}

// SetPriority applies a nice-value hint derived from the given oqpi
// thread-priority level, scaled onto Linux's [-20, 19] niceness range.
func SetPriority(level int) error {
	nice := niceFromLevel(level)
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		return fmt.Errorf("affinity: setpriority: %w", err)
	}
	return nil
}

// niceFromLevel maps the 6 oqpi thread-priority levels onto a
// monotonically decreasing niceness value (lower niceness = higher
// scheduling priority).
func niceFromLevel(level int) int {
	// levels: 0=lowest .. 5=time_critical
	switch {
	case level <= 0:
		return 19
	case level >= 5:
		return -20
	default:
		// linear interpolation across the remaining 4 intermediate levels
		return 19 - level*((19-(-20))/5)
	}
}
