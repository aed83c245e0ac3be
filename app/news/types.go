package news

import (
	"time"
)

// ProviderKind identifies which external news API a raw record came from.
type ProviderKind string

const (
	ProviderNewsAPI  ProviderKind = "newsapi"
	ProviderGuardian ProviderKind = "guardian"
	ProviderNYTimes  ProviderKind = "nytimes"
)

func ParseKind(s string) (ProviderKind, bool) {
	switch ProviderKind(s) {
	case ProviderNewsAPI, ProviderGuardian, ProviderNYTimes:
		return ProviderKind(s), true
	}
	return "", false
}

// Draft is a normalized article candidate that has not been persisted yet.
type Draft struct {
	Title       string
	Content     string
	Source      string
	Category    string
	PublishedAt time.Time
	ImageURL    *string
	SourceURL   *string
	Author      *string
}

// Config describes one configured provider source.
type Config struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	URL           string            `yaml:"url"`
	APIKey        string            `yaml:"api_key"`
	APIKeyEnv     string            `yaml:"api_key_env"`
	APIKeyParam   string            `yaml:"api_key_param"`
	Params        map[string]string `yaml:"params"`
	StaticBaseURL string            `yaml:"static_base_url"`
	Timeout       int               `yaml:"timeout"` // seconds
	Enabled       bool              `yaml:"enabled"`
}

func (c *Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) ProviderKind() ProviderKind {
	return ProviderKind(c.Kind)
}
