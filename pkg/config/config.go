package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		Source       string `yaml:"source"` // csv or clickhouse
		Dir          string `yaml:"dir"`
		HistoricFile string `yaml:"historic_file"`
		SocialFile   string `yaml:"social_file"`
	} `yaml:"data"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled    bool          `yaml:"enabled"`
		Brokers    []string      `yaml:"brokers"`
		Topic      string        `yaml:"topic"`
		GroupID    string        `yaml:"group_id"`
		Workers    int           `yaml:"workers"`
		BufferSize int           `yaml:"buffer_size"`
		RetryMax   int           `yaml:"retry_max"`
		BackoffMin time.Duration `yaml:"backoff_min"`
		BackoffMax time.Duration `yaml:"backoff_max"`
		DLQTopic   string        `yaml:"dlq_topic"`
	} `yaml:"kafka"`
	Forecast struct {
		WindowDays   int    `yaml:"window_days"`
		ModelVersion string `yaml:"model_version"`
	} `yaml:"forecast"`
	Trends  Thresholds `yaml:"trends"`
	Catalog struct {
		Prices map[string]float64 `yaml:"prices"`
		Titles map[string]string  `yaml:"titles"`
	} `yaml:"catalog"`
}

// Thresholds are the product-tunable scoring knobs. Defaults mirror the
// dashboard's current heuristics; overriding them in YAML needs no code change.
type Thresholds struct {
	SpikeAction       int           `yaml:"spike_action"`
	Change24Action    int           `yaml:"change24_action"`
	Change24Review    int           `yaml:"change24_review"`
	Change7Review     int           `yaml:"change7_review"`
	Spike12Hours      int           `yaml:"spike_12h"`
	Spike24Hours      int           `yaml:"spike_24h"`
	LowDemandUnits    float64       `yaml:"low_demand_units"`
	RevenueAtRiskBase int           `yaml:"revenue_at_risk_base"`
	TopSkus           int           `yaml:"top_skus"`
	TopKeywords       int           `yaml:"top_keywords"`
	LivePushInterval  time.Duration `yaml:"live_push_interval"`
}

// DefaultThresholds returns the scoring knobs the dashboard ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SpikeAction:       150,
		Change24Action:    50,
		Change24Review:    25,
		Change7Review:     40,
		Spike12Hours:      150,
		Spike24Hours:      100,
		LowDemandUnits:    100,
		RevenueAtRiskBase: 200_000,
		TopSkus:           5,
		TopKeywords:       6,
		LivePushInterval:  30 * time.Second,
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &Config{Trends: DefaultThresholds()}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Data.Source == "" {
		c.Data.Source = "csv"
	}
	if c.Data.HistoricFile == "" {
		c.Data.HistoricFile = "historic.csv"
	}
	if c.Data.SocialFile == "" {
		c.Data.SocialFile = "social.csv"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 86_400 * time.Second
	}
	if c.Forecast.WindowDays == 0 {
		c.Forecast.WindowDays = 28
	}
	if c.Forecast.ModelVersion == "" {
		c.Forecast.ModelVersion = "v0.1-stub"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Data.Source != "csv" && c.Data.Source != "clickhouse" {
		return fmt.Errorf("data.source must be 'csv' or 'clickhouse', got '%s'", c.Data.Source)
	}
	if c.Data.Source == "csv" && c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required for the csv source")
	}
	if c.Data.Source == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse source")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
