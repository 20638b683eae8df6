package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fhfa-go/server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInitWritesLevelFiles(t *testing.T) {
	root := t.TempDir()
	log, err := Init(root, config.LoggingConfig{Directory: "out", MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)

	log.Warn("probe timer paused")
	_ = log.Sync()

	entries, err := os.ReadDir(filepath.Join(root, "out"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	today := time.Now().Format("2006-01-02")
	assert.Contains(t, names, today+"-warn.log")

	data, err := os.ReadFile(filepath.Join(root, "out", today+"-warn.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "probe timer paused")
}

func observed(level logger.LogLevel) (*GormZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormZapLogger(zap.New(core), level), logs
}

func TestTraceLevels(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }

	l, logs := observed(logger.Info)
	l.Trace(context.Background(), time.Now(), query, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

	l, logs = observed(logger.Warn)
	l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "GORM Trace [SLOW]", logs.All()[0].Message)

	l, logs = observed(logger.Error)
	l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestLogModeCopies(t *testing.T) {
	l, logs := observed(logger.Info)
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "", 0 }, errors.New("x"))
	silent.Info(context.Background(), "hidden")

	assert.Zero(t, logs.Len())
	assert.Equal(t, logger.Info, l.LogLevel)
}
