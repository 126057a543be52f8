package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/saferoute/internal/core/scoring"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Directions DirectionsConfig `mapstructure:"directions"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Zones      ZonesConfig      `mapstructure:"zones"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`
	WriteTimeout   int    `mapstructure:"write_timeout"`
	RequestTimeout int    `mapstructure:"request_timeout"`
	CORSOrigins    string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
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
	// TTL for cached planned routes, in seconds.
	RouteTTL int `mapstructure:"route_ttl"`
	// TTL for cached zone listings, in seconds.
	ZoneTTL int `mapstructure:"zone_ttl"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// DirectionsConfig configures the Google Directions client.
type DirectionsConfig struct {
	APIKey    string  `mapstructure:"api_key"`
	BaseURL   string  `mapstructure:"base_url"`
	Mode      string  `mapstructure:"mode"`
	Timeout   int     `mapstructure:"timeout"`
	RateLimit float64 `mapstructure:"rate_limit"`
}

// ScoringConfig overrides the scoring weights.
type ScoringConfig struct {
	ProximityThreshold float64 `mapstructure:"proximity_threshold"`
	HighRiskPenalty    int     `mapstructure:"high_risk_penalty"`
	LowLightDelta      int     `mapstructure:"low_light_delta"`
	CrowdedBonus       int     `mapstructure:"crowded_bonus"`
	FallbackScore      int     `mapstructure:"fallback_score"`
	Workers            int     `mapstructure:"workers"`
}

// Weights converts the section into scorer weights.
func (s ScoringConfig) Weights() scoring.Weights {
	return scoring.Weights{
		ProximityThreshold: s.ProximityThreshold,
		HighRiskPenalty:    s.HighRiskPenalty,
		LowLightDelta:      s.LowLightDelta,
		CrowdedBonus:       s.CrowdedBonus,
		FallbackScore:      s.FallbackScore,
	}
}

// Zone catalog sources.
const (
	ZoneSourceStatic   = "static"
	ZoneSourceGeoJSON  = "geojson"
	ZoneSourcePostgres = "postgres"
)

type ZonesConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return load(service, viper.New())
}

func load(service string, v *viper.Viper) (*Config, error) {
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SAFEROUTE_DIRECTIONS_API_KEY → directions.api_key
	v.SetEnvPrefix("SAFEROUTE")
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

func setDefaults(v *viper.Viper, service string) {
	w := scoring.DefaultWeights()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("server.cors_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "saferoute")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "saferoute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.route_ttl", 120)
	v.SetDefault("valkey.zone_ttl", 300)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("directions.api_key", "")
	v.SetDefault("directions.base_url", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("directions.mode", "driving")
	v.SetDefault("directions.timeout", 10)
	v.SetDefault("directions.rate_limit", 10)
	v.SetDefault("scoring.proximity_threshold", w.ProximityThreshold)
	v.SetDefault("scoring.high_risk_penalty", w.HighRiskPenalty)
	v.SetDefault("scoring.low_light_delta", w.LowLightDelta)
	v.SetDefault("scoring.crowded_bonus", w.CrowdedBonus)
	v.SetDefault("scoring.fallback_score", w.FallbackScore)
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("zones.source", ZoneSourceStatic)
	v.SetDefault("zones.file", "")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "saferoute-planner")
}

var travelModes = map[string]bool{"driving": true, "walking": true, "bicycling": true, "transit": true}

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
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}

	switch c.Zones.Source {
	case ZoneSourceStatic:
	case ZoneSourceGeoJSON:
		if c.Zones.File == "" {
			errs = append(errs, "zones.file is required when zones.source is geojson")
		}
	case ZoneSourcePostgres:
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
	default:
		errs = append(errs, fmt.Sprintf("zones.source must be static, geojson or postgres, got %q", c.Zones.Source))
	}

	if c.Directions.BaseURL == "" {
		errs = append(errs, "directions.base_url is required")
	}
	if !travelModes[c.Directions.Mode] {
		errs = append(errs, fmt.Sprintf("directions.mode %q is not a known travel mode", c.Directions.Mode))
	}
	if c.Directions.Timeout <= 0 {
		errs = append(errs, "directions.timeout must be positive")
	}
	if c.Directions.RateLimit <= 0 {
		errs = append(errs, "directions.rate_limit must be positive")
	}

	if err := c.Scoring.Weights().Validate(); err != nil {
		errs = append(errs, "scoring: "+err.Error())
	}
	if c.Scoring.Workers < 0 {
		errs = append(errs, "scoring.workers must not be negative")
	}

	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
