package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/formpilot-cli/internal/config"
)

// memSyncer captures console output for assertions.
type memSyncer struct {
	data []byte
}

func (m *memSyncer) Write(p []byte) (int, error) {
	m.data = append(m.data, p...)
	return len(p), nil
}

func (m *memSyncer) Sync() error { return nil }

func TestInitializeWritesToConsoleAndFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logFile := filepath.Join(t.TempDir(), "out.log")
	sink := &memSyncer{}
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "formpilot-test",
		LogFile:     logFile,
		MaxSize:     1,
	}, zapcore.Lock(zapcore.AddSync(sink)))

	logger := GetLogger()
	logger.Info("hello", zap.String("k", "v"))
	require.NoError(t, logger.Sync())

	assert.Contains(t, string(sink.data), `"hello"`)
	assert.Contains(t, string(sink.data), `"formpilot-test"`)

	onDisk, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), `"hello"`)
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &memSyncer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "one"},
		zapcore.Lock(zapcore.AddSync(first)))
	second := &memSyncer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "two"},
		zapcore.Lock(zapcore.AddSync(second)))

	GetLogger().Info("ping")
	GetLogger().Sync()

	assert.Contains(t, string(first.data), "ping", "first initialization wins")
	assert.Empty(t, second.data)
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger())
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSyncer{}
	Initialize(config.LoggerConfig{Level: "nonsense", Format: "json", ServiceName: "x"},
		zapcore.Lock(zapcore.AddSync(sink)))

	GetLogger().Debug("invisible")
	GetLogger().Info("visible")
	GetLogger().Sync()

	assert.NotContains(t, string(sink.data), "invisible")
	assert.Contains(t, string(sink.data), "visible")
}
