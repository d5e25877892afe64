package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string         `yaml:"git_commit" envconfig:"MKB_GIT_COMMIT"`
	GitTag             string         `yaml:"git_tag" envconfig:"MKB_GIT_TAG"`
	BuildTime          string         `yaml:"build_time" envconfig:"MKB_BUILD_TIME"`
	IsProduction       bool           `yaml:"is_production" envconfig:"MKB_IS_PRODUCTION"`
	LogLevel           zapcore.Level  `yaml:"log_level" envconfig:"MKB_LOG_LEVEL"`
	LogFile            string         `yaml:"log_file" envconfig:"MKB_LOG_FILE"`
	ProfilerEnable     bool           `yaml:"profiler_enable" envconfig:"MKB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool           `yaml:"ops_endpoints_enable" envconfig:"MKB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig   `yaml:"server"`
	Upstream           UpstreamConfig `yaml:"upstream"`
	Store              StoreConfig    `yaml:"store"`
	I18n               I18nConfig     `yaml:"i18n"`
	Redis              RedisConfig    `yaml:"redis"`
	BoltDB             BoltDBConfig   `yaml:"boltdb"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"MKB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"MKB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"MKB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"MKB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"MKB_SERVER_REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"MKB_SERVER_SHUTDOWN_TIMEOUT"`
}

// UpstreamConfig describes the remote bookstore API this storefront fronts.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"MKB_UPSTREAM_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"MKB_UPSTREAM_TIMEOUT"`
	Paginated bool          `yaml:"paginated" envconfig:"MKB_UPSTREAM_PAGINATED"`
}

// StoreConfig carries the storefront business settings. MinSelection is the
// number of books a customer must pick before checkout is allowed.
type StoreConfig struct {
	PageSize     int `yaml:"page_size" envconfig:"MKB_STORE_PAGE_SIZE"`
	MinSelection int `yaml:"min_selection" envconfig:"MKB_STORE_MIN_SELECTION"`
}

// I18nConfig describes the translation catalog of the storefront.
type I18nConfig struct {
	LocalesDir      string   `yaml:"locales_dir" envconfig:"MKB_I18N_LOCALES_DIR"`
	Languages       []string `yaml:"languages" envconfig:"MKB_I18N_LANGUAGES"`
	DefaultLanguage string   `yaml:"default_language" envconfig:"MKB_I18N_DEFAULT_LANGUAGE"`
	CurrencyKey     string   `yaml:"currency_key" envconfig:"MKB_I18N_CURRENCY_KEY"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"MKB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"MKB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"MKB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"MKB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"MKB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"MKB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"MKB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"MKB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"MKB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"MKB_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath    string        `yaml:"filepath" envconfig:"MKB_BOLTDB_FILE_PATH"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"MKB_BOLTDB_TIMEOUT"`
	OrderBucket string        `yaml:"order_bucket" envconfig:"MKB_BOLTDB_ORDER_BUCKET"`
	PrefsBucket string        `yaml:"prefs_bucket" envconfig:"MKB_BOLTDB_PREFS_BUCKET"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Upstream.BaseURL) == 0 {
		return errors.New("make sure to set the upstream catalog base url in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.Store.PageSize <= 0 {
		config.Store.PageSize = 12
	}

	if config.Store.MinSelection < 0 {
		return errors.New("store minimum selection cannot be negative")
	}

	if config.Store.MinSelection == 0 {
		config.Store.MinSelection = 10
	}

	if len(config.I18n.Languages) == 0 {
		config.I18n.Languages = []string{"ar", "fr", "en"}
	}

	if len(config.I18n.DefaultLanguage) == 0 {
		config.I18n.DefaultLanguage = "ar"
	}

	if len(config.I18n.CurrencyKey) == 0 {
		config.I18n.CurrencyKey = "mad"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `MKB`.
	err = LoadConfigEnvs("MKB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
