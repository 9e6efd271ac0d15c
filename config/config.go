package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const secretFile = ".session_secret"

// ErrMissingAPIToken is returned when no upstream API token is configured.
var ErrMissingAPIToken = errors.New("CF_API_TOKEN is required")

// ErrMissingDomain is returned when no root domain is configured.
var ErrMissingDomain = errors.New("DOMAIN is required")

// Config holds all server configuration. It is resolved once at startup and
// passed explicitly into constructors; nothing mutates it afterwards.
type Config struct {
	Host       string
	Port       int
	Mode       string // "debug" or "release"
	AuthUser   string
	AuthPass   string
	APIToken   string
	ZoneID     string
	AccountID  string
	RootDomain string

	SessionSecret   string
	SessionTTLHours int

	// CORSOrigins enables the CORS middleware when non-empty, for running
	// the front-end from a separate dev server.
	CORSOrigins []string

	Metrics MetricsConfig
}

type MetricsConfig struct {
	Enabled  bool
	Username string
	Password string
}

// Load resolves the configuration from environment variables. Zone and
// account ids may be left empty; main fills them via auto-configuration.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8001)
	v.SetDefault("MODE", "debug")
	v.SetDefault("SESSION_TTL_HOURS", 24)

	conf := Config{
		Host:            v.GetString("HOST"),
		Port:            v.GetInt("PORT"),
		Mode:            strings.ToLower(v.GetString("MODE")),
		AuthUser:        v.GetString("AUTH_USER"),
		AuthPass:        v.GetString("AUTH_PASS"),
		APIToken:        v.GetString("CF_API_TOKEN"),
		ZoneID:          v.GetString("CF_ZONE_ID"),
		AccountID:       v.GetString("CF_ACCOUNT_ID"),
		RootDomain:      v.GetString("DOMAIN"),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		SessionTTLHours: v.GetInt("SESSION_TTL_HOURS"),
		CORSOrigins:     splitNonEmpty(v.GetString("CORS_ORIGINS")),
		Metrics: MetricsConfig{
			Enabled:  v.GetBool("METRICS_ENABLED"),
			Username: v.GetString("METRICS_USERNAME"),
			Password: v.GetString("METRICS_PASSWORD"),
		},
	}

	if conf.APIToken == "" {
		return conf, ErrMissingAPIToken
	}
	if conf.RootDomain == "" {
		return conf, ErrMissingDomain
	}

	if conf.SessionSecret == "" {
		secret, err := loadOrCreateSecret()
		if err != nil {
			return conf, err
		}
		conf.SessionSecret = secret
	}
	return conf, nil
}

func splitNonEmpty(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// loadOrCreateSecret reads the persisted session secret, generating and
// storing a fresh one on first start so sessions survive restarts.
func loadOrCreateSecret() (string, error) {
	if data, err := os.ReadFile(secretFile); err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data)), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	secret := hex.EncodeToString(buf)
	if err := os.WriteFile(secretFile, []byte(secret), 0600); err != nil {
		return "", err
	}
	return secret, nil
}
