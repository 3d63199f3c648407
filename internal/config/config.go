package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, ok := configValue.Load().(*Config)
	if !ok {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string            `mapstructure:"version"`
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Weather     WeatherConfig     `mapstructure:"weather"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Geolocation GeolocationConfig `mapstructure:"geolocation"`
	Sessions    SessionsConfig    `mapstructure:"sessions"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	Host           string   `mapstructure:"host"`
	ReadTimeout    int      `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout   int      `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout    int      `mapstructure:"idle_timeout" validate:"min=0"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WeatherConfig configures the WeatherAPI.com forecast client.
// Timeout is in seconds; zero leaves the transport default in place.
type WeatherConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Days    int    `mapstructure:"days" validate:"min=1,max=14"`
	Timeout int    `mapstructure:"timeout" validate:"min=0"`
}

type SuggestionsConfig struct {
	Provider string   `mapstructure:"provider" validate:"oneof=static open-meteo"`
	Cities   []string `mapstructure:"cities"`
	BaseURL  string   `mapstructure:"base_url" validate:"omitempty,url"`
	Limit    int      `mapstructure:"limit" validate:"min=1,max=100"`
}

type GeolocationConfig struct {
	Provider  string  `mapstructure:"provider" validate:"oneof=none static ip"`
	URL       string  `mapstructure:"url" validate:"omitempty,url"`
	Latitude  float64 `mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `mapstructure:"longitude" validate:"min=-180,max=180"`
}

// SessionsConfig bounds the lifetime of widget sessions hosted by the server.
// Both values are in seconds.
type SessionsConfig struct {
	IdleTTL      int  `mapstructure:"idle_ttl" validate:"min=1"`
	ReapInterval int  `mapstructure:"reap_interval" validate:"min=1"`
	StaleGuard   bool `mapstructure:"stale_guard"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    60,
			AllowedOrigins: []string{"*"},
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.weatherapi.com/v1",
			APIKey:  "",
			Days:    3,
			Timeout: 0,
		},
		Suggestions: SuggestionsConfig{
			Provider: "static",
			Cities:   []string{"London", "New York", "Tokyo", "Paris", "Berlin"},
			BaseURL:  "https://geocoding-api.open-meteo.com/v1",
			Limit:    5,
		},
		Geolocation: GeolocationConfig{
			Provider: "ip",
			URL:      "http://ip-api.com/json",
		},
		Sessions: SessionsConfig{
			IdleTTL:      900,
			ReapInterval: 60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
