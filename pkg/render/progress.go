package render

import (
	"fmt"
	"sync/atomic"
)

// Logger is the minimal logging surface the renderer needs.
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stdout.
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger.
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// Progress receives batched counts of completed pixels. It is purely
// observational: rendering never reads it. Implementations must be safe
// for concurrent use, since every worker reports to the same value.
type Progress interface {
	Add(n int)
}

// NopProgress discards all updates.
type NopProgress struct{}

func (NopProgress) Add(int) {}

// LogProgress logs completed work as coarse percentage steps. Workers
// already batch their Add calls, so the atomics here are the only shared
// state they contend on.
type LogProgress struct {
	total   int64
	step    int64
	done    atomic.Int64
	printed atomic.Int64
	logger  Logger
}

// NewLogProgress reports progress over total pixels every stepPercent.
func NewLogProgress(total int, stepPercent int, logger Logger) *LogProgress {
	if stepPercent <= 0 {
		stepPercent = 10
	}
	return &LogProgress{
		total:  int64(total),
		step:   int64(stepPercent),
		logger: logger,
	}
}

// Add records n more finished pixels and logs when a new percentage step
// is crossed. Out-of-order updates from racing workers collapse onto the
// highest step seen.
func (lp *LogProgress) Add(n int) {
	done := lp.done.Add(int64(n))
	pct := done * 100 / lp.total
	step := pct / lp.step * lp.step
	for {
		prev := lp.printed.Load()
		if step <= prev {
			return
		}
		if lp.printed.CompareAndSwap(prev, step) {
			lp.logger.Printf("rendered %d%%\n", step)
			return
		}
	}
}
