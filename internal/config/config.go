package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by Load. Each is read from the upper-cased environment
// variable of the same name, or from a bound command-line flag.
const (
	KeyListenAddr      = "listen_addr"
	KeyUsersFile       = "users_file"
	KeyStaticDir       = "static_dir"
	KeyGRPCAddr        = "grpc_addr"
	KeyLogLevel        = "log_level"
	KeyLogDevelopment  = "log_development"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyCORSOrigins     = "cors_origins"
)

// Config holds all service configuration.
type Config struct {
	ListenAddr      string        // HTTP listen address
	UsersFile       string        // Path of the JSON user store
	StaticDir       string        // Directory served for non-API paths; empty disables
	GRPCAddr        string        // gRPC health listen address; empty disables
	LogLevel        string        // zap level name
	LogDevelopment  bool          // Human-readable console logs
	ShutdownTimeout time.Duration // Grace period for in-flight requests
	CORSOrigins     []string      // Allowed CORS origins
}

// New returns a viper instance with defaults applied and environment
// lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyListenAddr, ":3000")
	v.SetDefault(KeyUsersFile, "users.json")
	v.SetDefault(KeyStaticDir, "public")
	v.SetDefault(KeyGRPCAddr, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDevelopment, false)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyCORSOrigins, "*")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from v, falling back to defaults for anything
// unset or unparsable.
func Load(v *viper.Viper) *Config {
	timeout := v.GetDuration(KeyShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Config{
		ListenAddr:      orDefault(v.GetString(KeyListenAddr), ":3000"),
		UsersFile:       orDefault(v.GetString(KeyUsersFile), "users.json"),
		StaticDir:       v.GetString(KeyStaticDir),
		GRPCAddr:        v.GetString(KeyGRPCAddr),
		LogLevel:        orDefault(v.GetString(KeyLogLevel), "info"),
		LogDevelopment:  v.GetBool(KeyLogDevelopment),
		ShutdownTimeout: timeout,
		CORSOrigins:     splitList(v.GetString(KeyCORSOrigins)),
	}
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
