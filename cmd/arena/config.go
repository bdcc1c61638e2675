package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/metalagman/arena/internal/config"
)

// loadConfig reads the config file when present and overlays it on the
// defaults. A missing file is not an error; a malformed one is.
func loadConfig(workDir string) (config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(".arena", "config.json")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}

	settings := viper.AllSettings()
	delete(settings, "config")
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}

	if err := viper.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.StringToTimeDurationHookFunc(),
	)); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
