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
	GitCommit          string        `yaml:"git_commit" envconfig:"MLIB_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"MLIB_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"MLIB_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"MLIB_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"MLIB_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"MLIB_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"MLIB_LOG_MAX_SIZE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"MLIB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"MLIB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Auth               AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"MLIB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"MLIB_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"MLIB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"MLIB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"MLIB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"MLIB_SERVER_SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"MLIB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"MLIB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"MLIB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"MLIB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"MLIB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"MLIB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"MLIB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"MLIB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"MLIB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"MLIB_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"MLIB_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"MLIB_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"MLIB_BOLTDB_BUCKET_NAME"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" envconfig:"MLIB_AUTH_JWT_SECRET"`
	TokenTTL          time.Duration `yaml:"token_ttl" envconfig:"MLIB_AUTH_TOKEN_TTL"`
	MinPasswordLength int           `yaml:"min_password_length" envconfig:"MLIB_AUTH_MIN_PASSWORD_LENGTH"`
	BcryptCost        int           `yaml:"bcrypt_cost" envconfig:"MLIB_AUTH_BCRYPT_COST"`
	AdminUsername     string        `yaml:"admin_username" envconfig:"MLIB_AUTH_ADMIN_USERNAME"`
	AdminPassword     string        `yaml:"admin_password" envconfig:"MLIB_AUTH_ADMIN_PASSWORD"`
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

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.Auth.JWTSecret) == 0 {
		return errors.New("make sure to set a non empty jwt secret in configuration")
	}

	// Credentials expire after 24 hours unless explicitly configured.
	if config.Auth.TokenTTL == 0 {
		config.Auth.TokenTTL = 24 * time.Hour
	}

	if config.Auth.MinPasswordLength == 0 {
		config.Auth.MinPasswordLength = 8
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

	// Use environment variables with prefix `MLIB`.
	err = LoadConfigEnvs("MLIB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
