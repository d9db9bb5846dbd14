package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Prediction    PredictionConfig    `mapstructure:"prediction"`
	Client        ClientConfig        `mapstructure:"client"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenDuration     time.Duration `mapstructure:"access_token_duration" validate:"required"`
	BCryptCost              int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
	DefaultEmployeePassword string        `mapstructure:"default_employee_password" validate:"required,min=6"`
}

type PredictionConfig struct {
	ServiceURL     string        `mapstructure:"service_url" validate:"required,url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxWorkers     int           `mapstructure:"max_workers" validate:"min=0,max=64"`
	JobQueueSize   int           `mapstructure:"job_queue_size" validate:"min=0"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size" validate:"min=0"`
}

// ClientConfig drives the dashboard commands talking to a running server.
type ClientConfig struct {
	APIURL      string        `mapstructure:"api_url" validate:"required,url"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PageSize    int           `mapstructure:"page_size" validate:"min=0,max=1000"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

// ----------------- ENV -----------------

// LoadConfigFromEnv builds the configuration for container deployments where no config file exists.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8000),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8000"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:               getEnv("JWT_SECRET", ""),
			AccessTokenDuration:     getEnvAsDuration("ACCESS_TOKEN_DURATION", 30*time.Minute),
			BCryptCost:              getEnvAsInt("BCRYPT_COST", 12),
			DefaultEmployeePassword: getEnv("DEFAULT_EMPLOYEE_PASSWORD", "password123"),
		},
		Prediction: PredictionConfig{
			ServiceURL:     getEnv("PREDICTION_SERVICE_URL", "http://localhost:8001"),
			APIKey:         getEnv("PREDICTION_API_KEY", ""),
			Timeout:        getEnvAsDuration("PREDICTION_TIMEOUT", 10*time.Second),
			MaxWorkers:     getEnvAsInt("PREDICTION_MAX_WORKERS", 4),
			JobQueueSize:   getEnvAsInt("PREDICTION_JOB_QUEUE_SIZE", 100),
			WorkerPoolSize: getEnvAsInt("PREDICTION_WORKER_POOL_SIZE", 4),
		},
		Client: ClientConfig{
			APIURL:      getEnv("API_URL", "http://localhost:8000/api/v1"),
			SessionFile: getEnv("SESSION_FILE", ""),
			Timeout:     getEnvAsDuration("CLIENT_TIMEOUT", 15*time.Second),
			PageSize:    getEnvAsInt("CLIENT_PAGE_SIZE", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
				File:   getEnv("LOG_FILE", ""),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks everything the server needs.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c.Server); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	} else if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := validate.Struct(c.Database); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	} else if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := validate.Struct(c.Security); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := validate.Struct(c.Prediction); err != nil {
		errs = append(errs, fmt.Sprintf("prediction config: %v", err))
	}

	if err := validate.Struct(c.Observability); err != nil {
		errs = append(errs, fmt.Sprintf("observability config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// ValidateClient checks only the section the dashboard commands read.
func (c *Config) ValidateClient() error {
	if err := validate.Struct(c.Client); err != nil {
		return fmt.Errorf("client config: %w", err)
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}
