package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TraceLogger records one line per generator decision.
type TraceLogger interface {
	Log(version int, class string, decision string)
}

// traceLogger implements TraceLogger with thread-safe log.
type traceLogger struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewTrace creates a new TraceLogger. If writer is nil, returns a no-op logger.
func NewTrace(w io.Writer) TraceLogger {
	return &traceLogger{w: w, now: time.Now}
}

// Log emits a single line: timestamp, protocol version, class and decision summary.
func (t *traceLogger) Log(version int, class string, decision string) {
	if t.w == nil {
		return
	}

	line := fmt.Sprintf("%s v%d %s: %s\n",
		t.now().Format("2006/01/02 15:04:05"),
		version,
		class,
		decision)

	t.mu.Lock()
	_, _ = t.w.Write([]byte(line))
	t.mu.Unlock()
}
