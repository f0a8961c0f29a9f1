package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"silant-backend/config"
	"silant-backend/internal/db"
)

func TestCloseDB(t *testing.T) {
	gormDB, err := db.Open(config.DriverSQLite, "file:closedb?mode=memory")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	core, logs := observer.New(zapcore.InfoLevel)
	closeDB(gormDB, zap.New(core))

	assert.Error(t, sqlDB.Ping(), "pool should be closed")
	assert.Equal(t, 1, logs.FilterMessage("database closed").Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}
