package cli

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/virtops/proxmox-client/pkg/config"
)

// Config holds all pvectl settings, read from the environment (a local .env
// file is honored when present).
type Config struct {
	Env      string
	LogLevel string

	Hostname     string
	Username     string
	Password     string
	Realm        string
	Port         int
	ResponseType string
	TLSVerify    bool
	Timeout      time.Duration

	// SecretName, when set, makes pvectl fetch the credential mapping from
	// AWS Secrets Manager instead of the PVE_* variables above.
	SecretName string
	AWSRegion  string
	SecretTTL  time.Duration

	MetricsAddr string
}

// Load reads configuration from .env and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:      config.GetEnv("ENV", "dev"),
		LogLevel: config.GetEnv("LOG_LEVEL", "info"),

		Hostname:     config.GetEnv("PVE_HOSTNAME", ""),
		Username:     config.GetEnv("PVE_USERNAME", ""),
		Password:     config.GetEnv("PVE_PASSWORD", ""),
		Realm:        config.GetEnv("PVE_REALM", ""),
		Port:         config.GetEnvInt("PVE_PORT", 0),
		ResponseType: config.GetEnv("PVE_RESPONSE_TYPE", ""),
		TLSVerify:    config.GetEnvBool("PVE_TLS_VERIFY", false),
		Timeout:      config.GetEnvDuration("PVE_TIMEOUT", 30*time.Second),

		SecretName: config.GetEnv("PVE_SECRET_NAME", ""),
		AWSRegion:  config.GetEnv("AWS_REGION", "us-east-2"),
		SecretTTL:  config.GetEnvDuration("PVE_SECRET_TTL", 30*time.Minute),

		MetricsAddr: config.GetEnv("METRICS_ADDR", ""),
	}
}
