package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

const (
	envPrefix        = "USERMGMT"
	configDirName    = "appconfig"
	defaultWorkdir   = "."
	workdirEnvVarKey = "WORKDIR"
)

type App struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Version     string `mapstructure:"version" yaml:"version"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

type Logging struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the complete application configuration
type AppConfig struct {
	App     App          `mapstructure:"app" yaml:"app"`
	Logging Logging      `mapstructure:"logging" yaml:"logging"`
	Store   store.Config `mapstructure:"store" yaml:"store"`
	Cache   cache.Config `mapstructure:"cache" yaml:"cache"`
	// FlushInterval is how often a long running process flushes pending
	// mutations. Zero disables the periodic flush.
	FlushInterval time.Duration `mapstructure:"flushInterval" yaml:"flushInterval"`
}

var (
	mu      sync.RWMutex
	current *AppConfig
	v       *viper.Viper
)

// LoadConfig reads $WORKDIR/appconfig/<environment>.yaml, applies defaults and
// USERMGMT_ prefixed environment overrides, and makes the result the current config.
func LoadConfig(environment string) (*AppConfig, error) {
	if environment == "" {
		return nil, errors.New("environment must not be empty")
	}

	nv := viper.New()
	nv.SetConfigName(environment)
	nv.SetConfigType("yaml")
	nv.AddConfigPath(filepath.Join(workdir(), configDirName))
	nv.SetEnvPrefix(envPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	setDefaults(nv)

	if err := nv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", environment, err)
	}

	cfg, err := unmarshal(nv)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	v, current = nv, cfg
	mu.Unlock()

	logger.Logger(context.Background()).WithField("file", nv.ConfigFileUsed()).Debug("config loaded")
	return cfg, nil
}

// GetConfig returns the config of the last successful LoadConfig
func GetConfig() (*AppConfig, error) {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil, errors.New("config has not been loaded")
	}
	return current, nil
}

// WatchConfig calls onChange with the reloaded config every time the loaded
// config file changes. A file that fails to decode keeps the previous config.
func WatchConfig(onChange func(*AppConfig)) error {
	mu.RLock()
	wv := v
	mu.RUnlock()
	if wv == nil {
		return errors.New("config has not been loaded")
	}

	wv.OnConfigChange(func(e fsnotify.Event) {
		log := logger.Logger(context.Background()).WithField("file", e.Name)
		cfg, err := unmarshal(wv)
		if err != nil {
			log.WithError(err).Error("failed to reload config")
			return
		}

		mu.Lock()
		current = cfg
		mu.Unlock()

		log.WithField("op", e.Op.String()).Info("config reloaded")
		onChange(cfg)
	})
	wv.WatchConfig()
	return nil
}

func unmarshal(src *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := src.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.FlushInterval < 0 {
		return nil, fmt.Errorf("flushInterval must not be negative, got %s", cfg.FlushInterval)
	}
	return cfg, nil
}

func setDefaults(dv *viper.Viper) {
	dv.SetDefault("app.name", "usermgmt")
	dv.SetDefault("logging.level", "info")
	dv.SetDefault("logging.format", "text")
	dv.SetDefault("store.driver", store.DriverFile)
	dv.SetDefault("store.dataDir", "./data")
	dv.SetDefault("store.groupsResource", "groups.json")
	dv.SetDefault("store.usersResource", "users.json")
	dv.SetDefault("store.dirtyLimit", store.DefaultDirtyLimit)
	dv.SetDefault("cache.driver", cache.DriverMemory)
	dv.SetDefault("flushInterval", "0s")
}

func workdir() string {
	if dir := os.Getenv(workdirEnvVarKey); dir != "" {
		return dir
	}
	return defaultWorkdir
}
