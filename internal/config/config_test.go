package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GregMSThompson/projecthub-dashboard/internal/persist"
)

func TestNewDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "PERSISTBACKEND", "LAYOUTBLOBNAME", "AUTHDISABLED", "DEVROLE"} {
		t.Setenv(k, "")
	}

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.PersistBackend)
	assert.Equal(t, persist.DefaultLayoutsBlob, cfg.LayoutBlobName)
	assert.False(t, cfg.AuthDisabled)
	assert.Equal(t, "student", cfg.DevRole)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PERSISTBACKEND", "SQLite")
	t.Setenv("SQLITEPATH", "/tmp/layouts.db")
	t.Setenv("AUTHDISABLED", "true")
	t.Setenv("DEVROLE", "advisor")

	cfg := New()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.PersistBackend)
	assert.Equal(t, "/tmp/layouts.db", cfg.SQLitePath)
	assert.True(t, cfg.AuthDisabled)
	assert.Equal(t, "advisor", cfg.DevRole)
}
