package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pyama86/breachtracker/domain/classification"
	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/spf13/viper"
)

const envPrefix = "BREACHTRACKER"

// NewConfigRepository reads the TOML config at path. A missing file is not
// an error; defaults and BREACHTRACKER_* environment variables still apply.
func NewConfigRepository(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config error: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config error: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	if len(c.Classification.TriggerKeywords) == 0 {
		c.Classification.TriggerKeywords = classification.DefaultTriggerGroups()
	}
	if len(c.Classification.ActionKeywords) == 0 {
		c.Classification.ActionKeywords = classification.DefaultActionGroups()
	}

	valid := validator.New()
	if err := valid.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config error: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("storage.path", filepath.Join(home, ".breachtracker", "state.json"))
	v.SetDefault("incident.code_prefix", DefaultCodePrefix)
	v.SetDefault("incident.default_author", DefaultAuthor)
	v.SetDefault("business_units", slices.Clone(entity.CanonicalBusinessUnits))
	v.SetDefault("query.enabled", true)
	v.SetDefault("query.cache_ttl", "5m")
	v.SetDefault("log.level", "info")
}

type Config struct {
	Storage        StorageConfig        `mapstructure:"storage"`
	Incident       IncidentConfig       `mapstructure:"incident"`
	BusinessUnits  []string             `mapstructure:"business_units" validate:"required,min=1,dive,required"`
	Query          QueryConfig          `mapstructure:"query"`
	Classification ClassificationConfig `mapstructure:"classification"`
	Log            LogConfig            `mapstructure:"log"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type IncidentConfig struct {
	CodePrefix    string `mapstructure:"code_prefix" validate:"required"`
	DefaultAuthor string `mapstructure:"default_author" validate:"required"`
}

type QueryConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

type ClassificationConfig struct {
	TriggerKeywords []classification.KeywordGroup `mapstructure:"trigger_keywords" validate:"dive"`
	ActionKeywords  []classification.KeywordGroup `mapstructure:"action_keywords" validate:"dive"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// EngineConfig builds the classification engine settings from the keyword tables.
func (c *Config) EngineConfig() classification.Config {
	cfg := classification.DefaultConfig()
	cfg.TriggerGroups = c.Classification.TriggerKeywords
	cfg.ActionGroups = c.Classification.ActionKeywords
	return cfg
}

func (c *Config) RepositoryOptions() []Option {
	return []Option{
		WithCodePrefix(c.Incident.CodePrefix),
		WithDefaultAuthor(c.Incident.DefaultAuthor),
		WithCanonicalUnits(c.BusinessUnits),
	}
}
