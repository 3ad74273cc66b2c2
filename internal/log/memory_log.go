package log

import "sync"

// MemoryLog implements the Log interface with an in-memory slice. Tests use
// it to assert that degeneracy fallbacks were reported.
type MemoryLog struct {
	entries []LogEntry
	mu      sync.RWMutex
}

// NewMemoryLog creates an empty MemoryLog.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{
		entries: nil,
		mu:      sync.RWMutex{},
	}
}

// Log implements the Log interface.
func (m *MemoryLog) Log(entry LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)

	return nil
}

// GetLogs implements the Log interface.
func (m *MemoryLog) GetLogs() ([]LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)

	return out, nil
}
