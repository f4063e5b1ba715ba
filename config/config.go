package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Audio    AudioConfig    `yaml:"audio"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// Environment selects how audio URLs are built: "local" uses the
	// detected interface address, "public" derives the URL per request.
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AudioConfig struct {
	// Dir holds generated answer audio; served at GET /{filename}.
	Dir string `yaml:"dir"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
	Voice    string `yaml:"voice"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the config file, expanding ${ENV} references. A missing file
// yields the defaults so the server runs out of the box.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "local"
	}
	if c.Database.Path == "" {
		c.Database.Path = "eco_assistant.db"
	}
	if c.Audio.Dir == "" {
		c.Audio.Dir = "./audio"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "en"
	}
	if c.OpenAI.Voice == "" {
		c.OpenAI.Voice = "alloy"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
