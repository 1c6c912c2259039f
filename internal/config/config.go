package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDateColumn        = "data_yyyy-mm-dd"
	DefaultTemperatureColumn = "temperatura_do_ar_-_bulbo_seco,_horaria_°c"
)

var (
	instance *Config
	once     sync.Once
)

// DataConfig describes where the yearly partitions live and how to read them
type DataConfig struct {
	Dir               string   `yaml:"dir"`
	PartitionPrefix   string   `yaml:"partition_prefix"`
	FirstYear         int      `yaml:"first_year"`
	LastYear          int      `yaml:"last_year"`
	DateColumn        string   `yaml:"date_column"`
	TemperatureColumn string   `yaml:"temperature_column"`
	MissingValues     []string `yaml:"missing_values"`
	Cache             bool     `yaml:"cache"`
	RefreshMinutes    int      `yaml:"refresh_minutes"` // 0 keeps cached partitions forever
	Workers           int      `yaml:"workers"`         // parallel file readers
	DownloadCommand   []string `yaml:"download_command"`
}

// Config - yaml file, secrets and connection strings come from the environment
type Config struct {
	Data      DataConfig `yaml:"data"`
	Assistant struct {
		Mode          string  `yaml:"mode"` // "rules" or "llm"
		ColdThreshold float64 `yaml:"cold_threshold"`
	} `yaml:"assistant"`
	LLM struct {
		BaseURL      string `yaml:"base_url"`
		Model        string `yaml:"model"`
		MaxTokens    int    `yaml:"max_tokens"`
		SystemPrompt string `yaml:"system_prompt"`
	} `yaml:"llm"`
	Journal struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"journal"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file %s: %w", configPath, readErr)
			return
		}

		if parseErr := yaml.Unmarshal(data, instance); parseErr != nil {
			err = fmt.Errorf("failed to parse config: %w", parseErr)
			return
		}

		instance.applyDefaults()

		if validateErr := instance.validate(); validateErr != nil {
			err = validateErr
			return
		}
	})

	return instance, err
}

func Get() *Config {
	if instance == nil {
		panic("config not loaded - call config.Load() first")
	}
	return instance
}

// Default returns a config with every default applied, for tests and tools
// that run without a config file
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Data.Dir == "" {
		c.Data.Dir = "."
	}
	if c.Data.PartitionPrefix == "" {
		c.Data.PartitionPrefix = "weather_"
	}
	if c.Data.FirstYear == 0 {
		c.Data.FirstYear = 2000
	}
	if c.Data.LastYear == 0 {
		c.Data.LastYear = 2024
	}
	if c.Data.DateColumn == "" {
		c.Data.DateColumn = DefaultDateColumn
	}
	if c.Data.TemperatureColumn == "" {
		c.Data.TemperatureColumn = DefaultTemperatureColumn
	}
	if c.Data.MissingValues == nil {
		c.Data.MissingValues = []string{"", "-9999"}
	}
	if c.Data.Workers == 0 {
		c.Data.Workers = 8
	}
	if c.Assistant.Mode == "" {
		c.Assistant.Mode = "rules"
	}
	if c.Assistant.ColdThreshold == 0 {
		c.Assistant.ColdThreshold = 20.0
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 150
	}
	if c.LLM.SystemPrompt == "" {
		c.LLM.SystemPrompt = "Você é um assistente de clima que responde a perguntas com base em um dataset de clima."
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func (c *Config) validate() error {
	if c.Data.FirstYear > c.Data.LastYear {
		return fmt.Errorf("data.first_year (%d) must not be after data.last_year (%d)", c.Data.FirstYear, c.Data.LastYear)
	}
	if c.Assistant.Mode != "rules" && c.Assistant.Mode != "llm" {
		return fmt.Errorf("assistant.mode must be \"rules\" or \"llm\", got %q", c.Assistant.Mode)
	}
	if c.Data.RefreshMinutes < 0 {
		return fmt.Errorf("data.refresh_minutes must not be negative")
	}
	if c.Data.Workers < 0 {
		return fmt.Errorf("data.workers must not be negative")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens cannot be negative")
	}
	return nil
}
