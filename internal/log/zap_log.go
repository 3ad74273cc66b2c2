package log

import (
	"go.uber.org/zap"

	"github.com/whchien/ai-trader-go/internal/logger"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// ZapLog implements the Log interface by forwarding entries to a zap-backed
// logger. Entries are not retained; use MemoryLog when retrieval matters.
type ZapLog struct {
	logger *logger.Logger
}

// NewZapLog creates a new ZapLog writing to the given logger.
func NewZapLog(l *logger.Logger) (*ZapLog, error) {
	if l == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "logger is nil")
	}

	return &ZapLog{logger: l}, nil
}

// Log implements the Log interface.
func (z *ZapLog) Log(entry LogEntry) error {
	fields := make([]zap.Field, 0, len(entry.Fields)+2)
	fields = append(fields,
		zap.Time("bar_time", entry.Timestamp),
		zap.String("symbol", entry.Symbol),
	)

	for k, v := range entry.Fields {
		fields = append(fields, zap.String(k, v))
	}

	switch entry.Level {
	case types.LogLevelDebug:
		z.logger.Debug(entry.Message, fields...)
	case types.LogLevelWarn:
		z.logger.Warn(entry.Message, fields...)
	case types.LogLevelError:
		z.logger.Error(entry.Message, fields...)
	default:
		z.logger.Info(entry.Message, fields...)
	}

	return nil
}

// GetLogs implements the Log interface. Forwarded entries are not retained.
func (z *ZapLog) GetLogs() ([]LogEntry, error) {
	return nil, nil
}
