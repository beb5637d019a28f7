package kuzusql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSNPathOnly(t *testing.T) {
	cfg, err := ParseDSN("/var/lib/app/graph.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/app/graph.db", cfg.Path)
	assert.False(t, cfg.ReadOnly)
	assert.Zero(t, cfg.BufferPoolSize)
	assert.Zero(t, cfg.Timeout)
}

func TestParseDSNInMemory(t *testing.T) {
	cfg, err := ParseDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Path)
}

func TestParseDSNAllParams(t *testing.T) {
	cfg, err := ParseDSN("graph.db?read_only=true&buffer_pool_size=268435456&max_threads=4&timeout_ms=2500")
	require.NoError(t, err)
	assert.Equal(t, "graph.db", cfg.Path)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, uint64(268435456), cfg.BufferPoolSize)
	assert.Equal(t, uint64(4), cfg.MaxThreads)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
}

func TestParseDSNErrors(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{"empty path", ""},
		{"empty path with params", "?read_only=true"},
		{"bad read_only", "graph.db?read_only=maybe"},
		{"bad buffer_pool_size", "graph.db?buffer_pool_size=-1"},
		{"bad max_threads", "graph.db?max_threads=lots"},
		{"negative timeout", "graph.db?timeout_ms=-5"},
		{"unknown parameter", "graph.db?journal_mode=WAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDSN(tt.dsn)
			assert.Error(t, err)
		})
	}
}
