package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries server settings. Values come from an optional YAML file,
// overridden by environment variables.
type Config struct {
	Addr             string        `yaml:"addr"`
	DBPath           string        `yaml:"db_path"`
	SessionTTL       time.Duration `yaml:"-"`
	FirstAdminSecret string        `yaml:"first_admin_secret"`
}

// session_ttl is written in Go duration syntax ("24h", "90m"), which yaml
// cannot decode into a time.Duration directly. Absent fields keep the value
// already in place, so defaults survive a partial file.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Addr             string `yaml:"addr"`
		DBPath           string `yaml:"db_path"`
		SessionTTL       string `yaml:"session_ttl"`
		FirstAdminSecret string `yaml:"first_admin_secret"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.Addr != "" {
		c.Addr = aux.Addr
	}
	if aux.DBPath != "" {
		c.DBPath = aux.DBPath
	}
	if aux.FirstAdminSecret != "" {
		c.FirstAdminSecret = aux.FirstAdminSecret
	}
	if aux.SessionTTL != "" {
		d, err := time.ParseDuration(aux.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}

func Default() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "./data/gamehub.db",
		SessionTTL: 24 * time.Hour,
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist) and applies env overrides: PORT, GAMEHUB_DB,
// GAMEHUB_ADMIN_SECRET.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if p := os.Getenv("PORT"); p != "" {
		cfg.Addr = ":" + p
	}
	if p := os.Getenv("GAMEHUB_DB"); p != "" {
		cfg.DBPath = p
	}
	if s := os.Getenv("GAMEHUB_ADMIN_SECRET"); s != "" {
		cfg.FirstAdminSecret = s
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return cfg, nil
}
