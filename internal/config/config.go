package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/emit"
	"github.com/jcdickinson/javadocfetch/internal/walk"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ExtractConfig struct {
	Policy docs.Policy `mapstructure:"policy"`
	// Budgets override the policy preset when positive.
	ClassBudget  int    `mapstructure:"class_budget"`
	MemberBudget int    `mapstructure:"member_budget"`
	Naming       string `mapstructure:"naming"`
	Ext          string `mapstructure:"ext"`
	Workers      int    `mapstructure:"workers"`
}

type OutputConfig struct {
	Path        string `mapstructure:"path"`
	Compress    string `mapstructure:"compress"`
	MappingFile string `mapstructure:"mapping_file"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type IndexConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type Config struct {
	Extract ExtractConfig `mapstructure:"extract"`
	Output  OutputConfig  `mapstructure:"output"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Index   IndexConfig   `mapstructure:"index"`
}

// Policy returns the extraction policy with budget overrides applied.
func (c *Config) Policy() docs.Policy {
	p := c.Extract.Policy
	if c.Extract.ClassBudget > 0 {
		p.ClassBudget = c.Extract.ClassBudget
	}
	if c.Extract.MemberBudget > 0 {
		p.MemberBudget = c.Extract.MemberBudget
	}
	return p
}

// Naming returns the parsed naming strategy.
func (c *Config) Naming() walk.Naming {
	n, _ := walk.ParseNaming(c.Extract.Naming)
	return n
}

// Compression returns the parsed output compression.
func (c *Config) Compression() emit.Compression {
	comp, _ := emit.ParseCompression(c.Output.Compress)
	return comp
}

func (c *Config) validate() error {
	if _, err := walk.ParseNaming(c.Extract.Naming); err != nil {
		return err
	}
	if _, err := emit.ParseCompression(c.Output.Compress); err != nil {
		return err
	}
	if c.Extract.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Extract.Workers)
	}
	return nil
}

// cacheBase returns the base cache directory for javadocfetch.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/javadocfetch as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "javadocfetch")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "javadocfetch")
	}
	return filepath.Join(os.TempDir(), "javadocfetch")
}

// DBPath returns the default path of the DuckDB index.
func DBPath() string {
	return filepath.Join(cacheBase(), "index.db")
}

// CASDir returns the default extraction cache directory.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "javadocfetch"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "javadocfetch"))
	}

	viper.SetDefault("extract.policy", docs.FullPolicy.Name)
	viper.SetDefault("extract.naming", string(walk.NamingPath))
	viper.SetDefault("extract.ext", walk.DefaultExt)
	viper.SetDefault("extract.workers", 1)
	viper.SetDefault("output.path", "javadoc.json")
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.dir", CASDir())
	viper.SetDefault("index.db_path", DBPath())

	viper.SetEnvPrefix("JAVADOCFETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// stringToPolicyHookFunc resolves a preset name such as "compact" into
// the policy it names.
func stringToPolicyHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(docs.Policy{}) {
			return data, nil
		}
		if f.Kind() == reflect.String {
			return docs.PolicyByName(data.(string))
		}
		return data, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}
	return decode(viper.AllSettings())
}

func decode(settings map[string]interface{}) (*Config, error) {
	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToPolicyHookFunc(),
		WeaklyTypedInput: true, // environment overrides arrive as strings
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}
