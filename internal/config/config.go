// Package config provides configuration loading and management for arena.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `json:"server"    mapstructure:"server"`
	Ollama    OllamaConfig    `json:"ollama"    mapstructure:"ollama"`
	Defaults  GenDefaults     `json:"defaults"  mapstructure:"defaults"`
	Retention RetentionPolicy `json:"retention" mapstructure:"retention"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// OllamaConfig describes the generation backend endpoint.
type OllamaConfig struct {
	BaseURL string        `json:"base_url,omitempty" mapstructure:"base_url"`
	Timeout time.Duration `json:"timeout,omitempty"  mapstructure:"timeout"`
}

// GenDefaults holds fallback generation parameters for agents that
// do not configure their own.
type GenDefaults struct {
	Temperature float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"  mapstructure:"max_tokens"`
}

// RetentionPolicy defines how many old debate runs to keep.
type RetentionPolicy struct {
	KeepLast int `json:"keep_last,omitempty" mapstructure:"keep_last"`
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
			Timeout: 120 * time.Second,
		},
		Defaults: GenDefaults{
			Temperature: 0.7,
			MaxTokens:   1024,
		},
	}
}
