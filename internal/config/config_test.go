package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, ":8080", Default().Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9000
  write_timeout: 30s
storage:
  driver: sqlite
  sqlite_path: /data/rescue.db
delivery:
  driver: webhook
  webhook_url: http://hooks.local/in
staff:
  user_ids: [staff-1]
`), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("STAFF_USER_IDS", "staff-2, staff-3,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout, "defaults survive a partial file")
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/data/rescue.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"staff-2", "staff-3"}, cfg.Staff.UserIDs)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv_DSNImpliesPostgres(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{"DB_DSN": "postgres://x"})))
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)

	cfg = Default()
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{"DB_DSN": "postgres://x", "STORAGE_DRIVER": "memory"})))
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"PORT": "eighty"})))

	cfg = Default()
	assert.Error(t, cfg.applyEnv(envMap(map[string]string{"ALLOW_ALL_CAPABILITIES": "maybe"})))
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Port = 0
	cfg.Storage.Driver = StoragePostgres
	cfg.Auth.Mode = AuthJWT
	cfg.Delivery.Driver = DeliveryKafka
	cfg.Staff.PlansURL = "http://plans"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"http.port", "DB_DSN", "JWT_SECRET", "KAFKA_BROKERS", "PLANS_API_KEY"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_UnknownDrivers(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "mongo"
	cfg.Auth.Mode = "saml"
	cfg.Delivery.Driver = "pigeon"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mongo"`)
	assert.Contains(t, err.Error(), `"saml"`)
	assert.Contains(t, err.Error(), `"pigeon"`)
}
