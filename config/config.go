package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// Storage drivers supported by the post repository.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Logging  LoggingConfig  `yaml:"logging"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`

	// AutoMigrate creates or alters the posts table at startup. Development only.
	AutoMigrate bool `yaml:"auto_migrate"`

	// LogQueries turns on SQL statement logging.
	LogQueries bool `yaml:"log_queries"`
}

// DSN renders the key/value connection string understood by lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// Format is "json" (default) or "text".
	Format      string `yaml:"format"`
	ServiceName string `yaml:"service_name"`
}

// KafkaConfig controls publishing of post lifecycle events.
// Publishing is disabled unless Enabled is true.
type KafkaConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Brokers    string `yaml:"brokers"`
	Topic      string `yaml:"topic"`
	Partitions int    `yaml:"partitions"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when neither config.yaml nor the
// environment provide a value.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: DriverPostgres},
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        5432,
			User:        "postgres",
			Password:    "postgres",
			Name:        "app_db",
			SSLMode:     "disable",
			AutoMigrate: true,
		},
		Mongo: MongoConfig{
			URI:    "mongodb://localhost:27017",
			DBName: "posts",
		},
		Logging: LoggingConfig{Level: "info", Format: "json", ServiceName: "posts-api"},
		Kafka: KafkaConfig{
			Topic:      "posts-api.post.events",
			Partitions: 3,
		},
	}
}

// Load reads .env and config.yaml from the base path and applies
// environment overrides on top. A missing config.yaml is not an error.
func Load() (*AppConfig, error) {
	base := GetBasePath()

	// load environment variables
	_ = godotenv.Load(filepath.Join(base, ENV_FILE))

	c := Default()

	// load configuration file
	data, err := os.ReadFile(filepath.Join(base, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", CONFIG_FILE, err)
	}

	if err := applyEnv(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports configuration values that cannot be used to start the service.
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Storage.Driver == DriverPostgres && (c.Database.Port <= 0 || c.Database.Port > 65535) {
		return fmt.Errorf("invalid database port %d", c.Database.Port)
	}
	if c.Kafka.Enabled && c.Kafka.Brokers == "" {
		return errors.New("kafka is enabled but no brokers are configured")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

func applyEnv(c *AppConfig) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	setBool := func(key string, dst *bool) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	setString("STORAGE_DRIVER", &c.Storage.Driver)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASS", &c.Database.Password)
	setString("DB_NAME", &c.Database.Name)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("MONGO_URI", &c.Mongo.URI)
	setString("MONGO_DB_NAME", &c.Mongo.DBName)
	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FORMAT", &c.Logging.Format)
	setString("SERVICE_NAME", &c.Logging.ServiceName)
	setString("KAFKA_BOOTSTRAP_SERVERS", &c.Kafka.Brokers)
	setString("KAFKA_TOPIC", &c.Kafka.Topic)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}

	for key, dst := range map[string]*int{
		"DB_PORT":   &c.Database.Port,
		"HTTP_PORT": &c.Server.Port,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"DB_AUTO_MIGRATE": &c.Database.AutoMigrate,
		"DB_LOGGING":      &c.Database.LogQueries,
		"KAFKA_ENABLED":   &c.Kafka.Enabled,
	} {
		if err := setBool(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
