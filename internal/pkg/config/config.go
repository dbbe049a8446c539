package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Grid       GridConfig       `mapstructure:"grid"`
	Population PopulationConfig `mapstructure:"population"`
	Sensors    SensorsConfig    `mapstructure:"sensors"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GridConfig mirrors usecases.GridConfig so it can be loaded from file/env.
type GridConfig struct {
	Size             int     `mapstructure:"size"`
	Power            float64 `mapstructure:"power"`
	AQIWeight        float64 `mapstructure:"aqi_weight"`
	PopulationWeight float64 `mapstructure:"population_weight"`
	Epsilon          float64 `mapstructure:"epsilon"`
	TopK             int     `mapstructure:"top_k"`
	Workers          int     `mapstructure:"workers"`
}

// PopulationConfig selects where population grids come from.
type PopulationConfig struct {
	Source   string   `mapstructure:"source"` // "file" | "postgres"
	Dir      string   `mapstructure:"dir"`
	Files    []string `mapstructure:"files"` // optional explicit list inside Dir
	CacheTTL int      `mapstructure:"cache_ttl"`
}

// SensorsConfig selects where live sensor readings come from.
type SensorsConfig struct {
	Source  string `mapstructure:"source"` // "http" | "nats" | "none"
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"`
	Tick    int    `mapstructure:"tick"` // simulator drift interval, seconds
	Port    int    `mapstructure:"port"` // simulator listen port
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	TaskQueue string `mapstructure:"task_queue"`
	Cron      string `mapstructure:"cron"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 2000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("grid.size", 100)
	v.SetDefault("grid.power", 2.0)
	v.SetDefault("grid.aqi_weight", 0.6)
	v.SetDefault("grid.population_weight", 0.4)
	v.SetDefault("grid.epsilon", 1e-9)
	v.SetDefault("grid.top_k", 5)
	v.SetDefault("grid.workers", runtime.GOMAXPROCS(0))
	v.SetDefault("population.source", "file")
	v.SetDefault("population.dir", "population_data")
	v.SetDefault("population.files", []string{})
	v.SetDefault("population.cache_ttl", 300)
	v.SetDefault("sensors.source", "http")
	v.SetDefault("sensors.url", "http://localhost:3001/aqi")
	v.SetDefault("sensors.timeout", 5)
	v.SetDefault("sensors.tick", 3)
	v.SetDefault("sensors.port", 3001)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "aqgrid")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "aqgrid")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.task_queue", "priority-sweep")
	v.SetDefault("temporal.cron", "")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: AQGRID_GRID_SIZE → grid.size
	v.SetEnvPrefix("AQGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Grid.Size < 2 {
		errs = append(errs, fmt.Sprintf("grid.size must be at least 2, got %d", c.Grid.Size))
	}
	if c.Grid.TopK < 1 {
		errs = append(errs, fmt.Sprintf("grid.top_k must be at least 1, got %d", c.Grid.TopK))
	}

	switch c.Population.Source {
	case "file":
		if c.Population.Dir == "" {
			errs = append(errs, "population.dir is required for the file source")
		}
	case "postgres":
		if !c.Database.Enabled {
			errs = append(errs, "population.source=postgres requires database.enabled")
		}
	default:
		errs = append(errs, fmt.Sprintf("population.source must be file or postgres, got %q", c.Population.Source))
	}

	switch c.Sensors.Source {
	case "http":
		if c.Sensors.URL == "" {
			errs = append(errs, "sensors.url is required for the http source")
		}
	case "nats":
		if c.NATS.URL == "" {
			errs = append(errs, "nats.url is required for the nats sensor source")
		}
	case "none":
	default:
		errs = append(errs, fmt.Sprintf("sensors.source must be http, nats or none, got %q", c.Sensors.Source))
	}

	if c.Sensors.Tick <= 0 {
		errs = append(errs, "sensors.tick must be positive")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
