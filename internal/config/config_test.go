package config

import (
	"os"
	"path/filepath"
	"testing"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
app:
  name: rozgaarsetu
  environment: test
database:
  path: /tmp/test.db
auth:
  jwt_secret: test-secret
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "rozgaarsetu", cfg.Auth.Issuer)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, models.RateLimitRequests, cfg.API.RateLimit.Burst)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "from-env")
	cfg, err := Load(writeConfig(t, `
database:
  path: /tmp/test.db
auth:
  jwt_secret: ${TEST_JWT_SECRET}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  path: /tmp/test.db
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestValidateCatalog(t *testing.T) {
	err := ValidateCatalog(
		[]models.ServiceCategory{{ID: "cat-1", Name: "A"}, {ID: "cat-1", Name: "B"}},
		nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category id")

	err = ValidateCatalog(
		[]models.ServiceCategory{{ID: "cat-1", Name: "A"}},
		[]models.Service{{ID: "svc-1", CategoryID: "cat-2", Name: "S"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	err = ValidateCatalog(
		[]models.ServiceCategory{{ID: "cat-1", Name: "A"}},
		[]models.Service{{ID: "svc-1", CategoryID: "cat-1", Name: "S"}},
	)
	assert.NoError(t, err)
}

func TestValidateTelegramRequiresToken(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  path: /tmp/test.db
auth:
  jwt_secret: s
telegram:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram bot token")
}
