package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/internal/testutil"
)

func TestMockLoggerRecordsEntries(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("segmented version", logging.Int("clauses", 12))

	entries := logger.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "segmented version", entries[0].Message)

	logger.Clear()
	assert.Empty(t, logger.Entries())

	logger.Error("pipeline failed")
	assert.True(t, logger.HasMessage("error", "pipeline failed"))
	assert.False(t, logger.HasMessage("info", "pipeline failed"))
}

func TestMockLoggerNamedSharesRecorder(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Named("ingestion").With(logging.String("k", "v")).Warn("lock contention")

	assert.True(t, logger.HasMessage("warn", "lock contention"))
}

var _ logging.Logger = (*testutil.MockLogger)(nil)
