package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds import pipeline settings.
type Config struct {
	WordNetPath    string `yaml:"wordnet_path"     env:"SEEDER_WORDNET_PATH"`
	KnownWordsPath string `yaml:"known_words_path" env:"SEEDER_KNOWN_WORDS_PATH"`
	InputPath      string `yaml:"input_path"       env:"SEEDER_INPUT_PATH"`
	DryRun         bool   `yaml:"dry_run"          env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("seeder config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}
