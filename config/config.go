package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Reference ReferenceConfig `yaml:"reference"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig enables the search cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// KafkaConfig enables operation events when at least one broker is set.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	EventsTopic string   `yaml:"events_topic" validate:"required_with=Brokers"`
	GroupID     string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// ReferenceConfig points at the airport allow-list. An empty path selects the embedded list.
type ReferenceConfig struct {
	AirportsCSV string `yaml:"airports_csv"`
}

type CacheConfig struct {
	SearchTTLSeconds int `yaml:"search_ttl_seconds" validate:"min=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "flightdesk",
			Name:    "flightdesk",
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{
			EventsTopic: "flightdesk.operations",
			GroupID:     "flightdesk-worker",
		},
		Cache: CacheConfig{SearchTTLSeconds: 60},
		Log:   LogConfig{Level: "info", Format: "console"},
	}
}

// Path resolves the config file location from CONFIG_PATH, loading a .env file first if one exists.
func Path() string {
	_ = godotenv.Load()
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// LoadConfig reads the YAML file at path over the defaults. A missing file is
// not an error: the defaults plus environment overrides are used instead.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FLIGHTDESK_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FLIGHTDESK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
