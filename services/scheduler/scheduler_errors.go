package scheduler

import "fmt"

var (
	// ErrSweepAlreadyRunning means an overlapping trigger fired while the same
	// job kind was still executing in this process. The overlapping run is
	// skipped, not queued.
	ErrSweepAlreadyRunning = fmt.Errorf("sweep already running")
)
