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
	GitCommit          string        `yaml:"git_commit" envconfig:"BCAT_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"BCAT_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BCAT_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"BCAT_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"BCAT_LOG_LEVEL"`
	LogFile            string        `yaml:"log_file" envconfig:"BCAT_LOG_FILE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"BCAT_OPS_ENDPOINTS_ENABLE"`
	SeedOnStartup      bool          `yaml:"seed_on_startup" envconfig:"BCAT_SEED_ON_STARTUP"`
	Server             ServerConfig  `yaml:"server"`
	Storage            StorageConfig `yaml:"storage"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Import             ImportConfig  `yaml:"import"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BCAT_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BCAT_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BCAT_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BCAT_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BCAT_SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the record store engine: `bolt` or `memory`.
type StorageConfig struct {
	Engine string `yaml:"engine" envconfig:"BCAT_STORAGE_ENGINE"`
}

type RedisConfig struct {
	Host           string        `yaml:"host" envconfig:"BCAT_REDIS_HOST"`
	Port           string        `yaml:"port" envconfig:"BCAT_REDIS_PORT"`
	DialTimeout    time.Duration `yaml:"dial_timeout" envconfig:"BCAT_REDIS_DIAL_TIMEOUT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"BCAT_REDIS_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"BCAT_REDIS_WRITE_TIMEOUT"`
	PublishTimeout time.Duration `yaml:"publish_timeout" envconfig:"BCAT_REDIS_PUBLISH_TIMEOUT"`
	PoolSize       int           `yaml:"pool_size" envconfig:"BCAT_REDIS_POOL_SIZE"`
	PoolTimeout    time.Duration `yaml:"pool_timeout" envconfig:"BCAT_REDIS_POOL_TIMEOUT"`
	Username       string        `yaml:"username" envconfig:"BCAT_REDIS_USERNAME"`
	Password       string        `yaml:"password" envconfig:"BCAT_REDIS_PASSWORD"`
	DatabaseIndex  int           `yaml:"db_index" envconfig:"BCAT_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BCAT_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BCAT_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BCAT_BOLTDB_BUCKET_NAME"`
}

// ImportConfig bounds the bulk import surface.
type ImportConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"BCAT_IMPORT_MAX_UPLOAD_BYTES"`
}

// Storage engine names accepted in the configuration.
const (
	StorageEngineBolt   = "bolt"
	StorageEngineMemory = "memory"
)

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

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	switch config.Storage.Engine {
	case StorageEngineBolt, StorageEngineMemory:
	case "":
		config.Storage.Engine = StorageEngineBolt
	default:
		return fmt.Errorf("unknown storage engine in configuration file: %s", config.Storage.Engine)
	}

	if config.Redis.PublishTimeout <= 0 {
		config.Redis.PublishTimeout = time.Second
	}

	if config.Import.MaxUploadBytes <= 0 {
		config.Import.MaxUploadBytes = 8 << 20
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

	// Use environment variables with prefix `BCAT`.
	err = LoadConfigEnvs("BCAT", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
