package log

import (
	"time"

	"github.com/whchien/ai-trader-go/internal/types"
)

// LogEntry represents a single diagnostics entry with market data context.
type LogEntry struct {
	// Timestamp is the market data time when this entry was created.
	Timestamp time.Time
	// Symbol is the asset associated with this entry.
	Symbol string
	// Level is the severity level of the entry.
	Level types.LogLevel
	// Message is the entry content.
	Message string
	// Fields contains optional structured key-value data.
	Fields map[string]string
}

// Log is the diagnostics sink injected into pipelines and the rotator.
// Per-bar degeneracy fallbacks are reported here instead of being raised
// as errors, so a long historical replay never crashes mid-stream.
type Log interface {
	// Log stores a log entry.
	Log(entry LogEntry) error
	// GetLogs retrieves all stored log entries.
	GetLogs() ([]LogEntry, error)
}

// Emit records an entry on sink, silently dropping it when sink is nil.
// Indicator hot paths use it so a missing sink never costs a branch at
// every call site.
func Emit(sink Log, level types.LogLevel, timestamp time.Time, symbol, message string, fields map[string]string) {
	if sink == nil {
		return
	}

	// Diagnostics are best-effort; a full or failed sink never stops a replay.
	_ = sink.Log(LogEntry{
		Timestamp: timestamp,
		Symbol:    symbol,
		Level:     level,
		Message:   message,
		Fields:    fields,
	})
}
