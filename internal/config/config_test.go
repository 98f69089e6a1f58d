package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(New())

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDevelopment)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":8080")
	t.Setenv("USERS_FILE", "/data/users.json")
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load(New())

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/data/users.json", cfg.UsersFile)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load(New())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_ExplicitOverride(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":8080")
	v := New()
	v.Set(KeyListenAddr, ":7070")

	assert.Equal(t, ":7070", Load(v).ListenAddr)
}
