package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

// setupTestConfig writes content as appconfig/<env>.yaml below a temporary
// WORKDIR and returns the file path
func setupTestConfig(t *testing.T, env, content string) string {
	t.Helper()
	workdir := t.TempDir()
	configDir := filepath.Join(workdir, "appconfig")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	path := filepath.Join(configDir, env+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("WORKDIR", workdir)
	return path
}

func TestLoadConfig_File(t *testing.T) {
	setupTestConfig(t, "test", `app:
  name: "usermgmt-test"
  version: "0.0.1"
  environment: "test"
logging:
  level: "debug"
  format: "json"
store:
  driver: "cache"
  groupsResource: "groups"
  usersResource: "users"
  dirtyLimit: 3
cache:
  driver: "redis"
  redis:
    host: "redis.local"
    port: "6380"
flushInterval: "1m"
`)

	cfg, err := LoadConfig("test")
	require.NoError(t, err)

	assert.Equal(t, "usermgmt-test", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, store.DriverCache, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Store.DirtyLimit)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, cache.DriverRedis, cfg.Cache.Driver)
	require.NotNil(t, cfg.Cache.Redis)
	assert.Equal(t, "redis.local", cfg.Cache.Redis.Host)
	assert.Equal(t, time.Minute, cfg.FlushInterval)

	got, err := GetConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setupTestConfig(t, "default", "app:\n  version: \"1.0.0\"\n")

	cfg, err := LoadConfig("default")
	require.NoError(t, err)

	assert.Equal(t, "usermgmt", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, store.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "groups.json", cfg.Store.GroupsResource)
	assert.Equal(t, "users.json", cfg.Store.UsersResource)
	assert.Equal(t, store.DefaultDirtyLimit, cfg.Store.DirtyLimit)
	assert.Equal(t, cache.DriverMemory, cfg.Cache.Driver)
	assert.Zero(t, cfg.FlushInterval)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	setupTestConfig(t, "default", "store:\n  dirtyLimit: 5\n")
	t.Setenv("USERMGMT_STORE_DIRTYLIMIT", "7")
	t.Setenv("USERMGMT_STORE_DATADIR", "/var/lib/usermgmt")

	cfg, err := LoadConfig("default")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Store.DirtyLimit)
	assert.Equal(t, "/var/lib/usermgmt", cfg.Store.DataDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	setupTestConfig(t, "default", "flushInterval: \"-5s\"\n")

	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig("missing")
	assert.Error(t, err)

	_, err = LoadConfig("default")
	assert.ErrorContains(t, err, "flushInterval")
}

func TestWatchConfig(t *testing.T) {
	path := setupTestConfig(t, "watch", "store:\n  dirtyLimit: 2\n")

	_, err := LoadConfig("watch")
	require.NoError(t, err)

	changes := make(chan *AppConfig, 4)
	require.NoError(t, WatchConfig(func(cfg *AppConfig) {
		select {
		case changes <- cfg:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("store:\n  dirtyLimit: 4\n"), 0o644))

	// a rewrite may be reported more than once, possibly while the file is still empty
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Store.DirtyLimit != 4 {
				continue
			}
			current, err := GetConfig()
			require.NoError(t, err)
			assert.Equal(t, 4, current.Store.DirtyLimit)
			return
		case <-timeout:
			t.Fatal("config change was not reported")
		}
	}
}
