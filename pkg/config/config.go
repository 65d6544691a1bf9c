package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"FinBeta/pkg/util"
)

type Config struct {
	Environment string     `yaml:"environment" default:"development" validate:"required"`
	Log         Log        `yaml:"log"`
	Server      Server     `yaml:"server"`
	Metrics     Metrics    `yaml:"metrics"`
	Estimator   Estimator  `yaml:"estimator"`
	Fetcher     Fetcher    `yaml:"fetcher"`
	Cache       Cache      `yaml:"cache"`
	ClickHouse  ClickHouse `yaml:"clickhouse"`
	Kafka       Kafka      `yaml:"kafka"`
}

type Log struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type Server struct {
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	RateLimit       float64       `yaml:"rate_limit" default:"5"`
	RateBurst       int           `yaml:"rate_burst" default:"10"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// Estimator holds request defaults applied when a caller leaves a field empty.
type Estimator struct {
	Asset    string `yaml:"asset" default:"MSFT" validate:"required"`
	Market   string `yaml:"market" default:"^GSPC" validate:"required"`
	RiskFree string `yaml:"risk_free" default:"^IRX" validate:"required"`
	Period   string `yaml:"period" default:"5y" validate:"required"`
	Interval string `yaml:"interval" default:"monthly" validate:"required"`
}

type Fetcher struct {
	Source string `yaml:"source" default:"yahoo" validate:"oneof=yahoo clickhouse"`
	Yahoo  Yahoo  `yaml:"yahoo"`
}

type Yahoo struct {
	Hosts          []string      `yaml:"hosts" default:"[\"https://query1.finance.yahoo.com\",\"https://query2.finance.yahoo.com\"]" validate:"min=1,dive,url"`
	Timeout        time.Duration `yaml:"timeout" default:"15s"`
	Retries        int           `yaml:"retries" default:"3" validate:"min=0,max=10"`
	RequestsPerSec float64       `yaml:"requests_per_sec" default:"2" validate:"gt=0"`
	UserAgent      string        `yaml:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"`
}

type Cache struct {
	Enabled       bool          `yaml:"enabled" default:"true"`
	TTL           time.Duration `yaml:"ttl" default:"1h"`
	MemoryMaxSize int           `yaml:"memory_max_size" default:"256"`
	Redis         Redis         `yaml:"redis"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"finbeta:"`
}

type ClickHouse struct {
	Host         string        `yaml:"host" default:"localhost"`
	Port         int           `yaml:"port" default:"9000"`
	Database     string        `yaml:"database" default:"finbeta"`
	User         string        `yaml:"user" default:"default"`
	Password     string        `yaml:"password"`
	Table        string        `yaml:"table" default:"daily_prices"`
	UseHTTP      bool          `yaml:"use_http"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecution time.Duration `yaml:"max_execution_time" default:"30s"`
	InitSchema   bool          `yaml:"init_schema"`
}

type Kafka struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers" default:"[\"localhost:9092\"]"`
	RequestTopic string        `yaml:"request_topic" default:"capm.requests"`
	ResultTopic  string        `yaml:"result_topic" default:"capm.results"`
	LogTopic     string        `yaml:"log_topic" default:"capm.logs"`
	GroupID      string        `yaml:"group_id" default:"finbeta"`
	Workers      int           `yaml:"workers" default:"4" validate:"min=1"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

var validate = validator.New()

// Default returns a fully defaulted configuration.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads the file at path, then applies environment overrides.
// With optional set, a missing file yields the defaults instead of an error.
func LoadWithEnv(path string, optional bool) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if c, err = Default(); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("FINBETA_SOURCE"); v != "" {
		c.Fetcher.Source = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitList(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
