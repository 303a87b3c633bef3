// internal/generator/errorlog.go
package generator

import (
	"sync"
	"time"

	apperrors "workout-service/internal/common/errors"
)

const errorLogCapacity = 10

// ErrorEntry is one recorded generation failure.
type ErrorEntry struct {
	Code      apperrors.Code `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// ErrorLog keeps the most recent N generation failures plus running counts
// by kind. Owned by the orchestrator, safe for concurrent use.
type ErrorLog struct {
	mu      sync.Mutex
	entries []ErrorEntry
	counts  map[apperrors.Code]int
}

func NewErrorLog() *ErrorLog {
	return &ErrorLog{
		counts: make(map[apperrors.Code]int),
	}
}

func (l *ErrorLog) Record(err error) {
	code := apperrors.CodeOf(err)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, ErrorEntry{
		Code:      code,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
	if len(l.entries) > errorLogCapacity {
		l.entries = l.entries[len(l.entries)-errorLogCapacity:]
	}
	l.counts[code]++
}

// Recent returns the retained entries, newest last.
func (l *ErrorLog) Recent() []ErrorEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ErrorEntry(nil), l.entries...)
}

// Stats returns failure counts by kind since process start.
func (l *ErrorLog) Stats() map[apperrors.Code]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[apperrors.Code]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}
