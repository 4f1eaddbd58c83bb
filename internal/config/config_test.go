package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "campaign_legacy", cfg.Mongo.SourceDB)
	assert.Equal(t, "campaign", cfg.Mongo.TargetDB)
	assert.Equal(t, "campaign_legacy", cfg.Migrate.SourceLabel)
	assert.Equal(t, 8, cfg.Migrate.Fanout)
	assert.Equal(t, 50, cfg.Migrate.LookupRPS)
	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TALENTSYNC_MONGO_SOURCE_DB", "legacy_snapshot")
	t.Setenv("TALENTSYNC_MIGRATE_FANOUT", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy_snapshot", cfg.Mongo.SourceDB)
	assert.Equal(t, 16, cfg.Migrate.Fanout)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
}
