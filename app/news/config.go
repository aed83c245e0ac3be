package news

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Sources []Config `yaml:"sources"`
}

// LoadSources reads provider source configurations from a YAML file,
// applies defaults and validates each entry.
func LoadSources(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i := range file.Sources {
		setDefaults(&file.Sources[i])

		if err := validate(&file.Sources[i]); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}

		slog.Debug("Source configuration loaded",
			"source", file.Sources[i].Name,
			"kind", file.Sources[i].Kind,
			"enabled", file.Sources[i].Enabled)
	}

	return file.Sources, nil
}

func setDefaults(c *Config) {
	if c.Timeout == 0 {
		c.Timeout = 30 // seconds
	}

	if c.APIKey == "" && c.APIKeyEnv != "" {
		c.APIKey = os.Getenv(c.APIKeyEnv)
	}

	if c.APIKeyParam == "" {
		switch c.ProviderKind() {
		case ProviderNewsAPI:
			c.APIKeyParam = "apiKey"
		case ProviderGuardian, ProviderNYTimes:
			c.APIKeyParam = "api-key"
		}
	}
}

func validate(c *Config) error {
	if c.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if c.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if _, ok := ParseKind(c.Kind); !ok {
		return fmt.Errorf("unknown source kind: %s", c.Kind)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
