package log

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/whchien/ai-trader-go/internal/logger"
	"github.com/whchien/ai-trader-go/internal/types"
)

type LogTestSuite struct {
	suite.Suite
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}

func (suite *LogTestSuite) TestMemoryLogStoresEntries() {
	sink := NewMemoryLog()

	err := sink.Log(LogEntry{
		Timestamp: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Symbol:    "AAPL",
		Level:     types.LogLevelWarn,
		Message:   "degenerate atr average",
		Fields:    map[string]string{"atr": "0"},
	})
	suite.NoError(err)

	entries, err := sink.GetLogs()
	suite.NoError(err)
	suite.Len(entries, 1)
	suite.Equal("AAPL", entries[0].Symbol)
	suite.Equal(types.LogLevelWarn, entries[0].Level)
	suite.Equal("degenerate atr average", entries[0].Message)
}

func (suite *LogTestSuite) TestMemoryLogCopiesOnRead() {
	sink := NewMemoryLog()
	suite.NoError(sink.Log(LogEntry{Symbol: "A", Level: types.LogLevelInfo, Message: "one"}))

	first, err := sink.GetLogs()
	suite.NoError(err)

	suite.NoError(sink.Log(LogEntry{Symbol: "B", Level: types.LogLevelInfo, Message: "two"}))
	suite.Len(first, 1)

	second, err := sink.GetLogs()
	suite.NoError(err)
	suite.Len(second, 2)
}

func (suite *LogTestSuite) TestEmitNilSink() {
	// Must not panic.
	Emit(nil, types.LogLevelWarn, time.Now(), "AAPL", "dropped", nil)
}

func (suite *LogTestSuite) TestEmitForwards() {
	sink := NewMemoryLog()
	Emit(sink, types.LogLevelDebug, time.Now(), "MSFT", "warming up", map[string]string{"bars": "3"})

	entries, err := sink.GetLogs()
	suite.NoError(err)
	suite.Len(entries, 1)
	suite.Equal(types.LogLevelDebug, entries[0].Level)
	suite.Equal("3", entries[0].Fields["bars"])
}

func (suite *LogTestSuite) TestNewZapLogNilLogger() {
	_, err := NewZapLog(nil)
	suite.Error(err)
}

func (suite *LogTestSuite) TestZapLogForwards() {
	sink, err := NewZapLog(logger.NewNopLogger())
	suite.NoError(err)

	suite.NoError(sink.Log(LogEntry{Symbol: "AAPL", Level: types.LogLevelWarn, Message: "ok"}))

	entries, err := sink.GetLogs()
	suite.NoError(err)
	suite.Nil(entries)
}
