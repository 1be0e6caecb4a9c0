// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		BaseURL           string   `yaml:"base_url"`
		APIKeys           []string `yaml:"api_keys"`
		RequestsPerSecond float64  `yaml:"requests_per_second"`
	} `yaml:"search"`

	Scheduler struct {
		RunOnStart bool `yaml:"run_on_start"`
	} `yaml:"scheduler"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
