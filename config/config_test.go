package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("AUTH_USER", "admin")
	t.Setenv("AUTH_PASS", "secret")
	t.Setenv("CF_API_TOKEN", "token")
	t.Setenv("CF_ZONE_ID", "zone1")
	t.Setenv("CF_ACCOUNT_ID", "acc1")
	t.Setenv("DOMAIN", "example.com")
	t.Setenv("SESSION_SECRET", "sekrit")
}

func TestLoadFromEnvironment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MODE", "RELEASE")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:4000")

	conf, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 9000, conf.Port)
	assert.Equal(t, "release", conf.Mode)
	assert.Equal(t, "example.com", conf.RootDomain)
	assert.Equal(t, "zone1", conf.ZoneID)
	assert.Equal(t, "acc1", conf.AccountID)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:4000"}, conf.CORSOrigins)
	assert.Equal(t, 24, conf.SessionTTLHours)
}

func TestLoadRequiresAPIToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CF_API_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingAPIToken)
}

func TestLoadRequiresDomain(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DOMAIN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDomain)
}

func TestLoadGeneratesAndPersistsSessionSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_SECRET", "")

	cwd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	conf, err := Load()
	assert.NoError(t, err)
	assert.NotEmpty(t, conf.SessionSecret)

	// second load reuses the persisted secret
	again, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, conf.SessionSecret, again.SessionSecret)
}
