package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderName identifies a provider family.
type ProviderName string

const (
	OpenAI    ProviderName = "openai"
	Anthropic ProviderName = "anthropic"
	Azure     ProviderName = "azure"
	Groq      ProviderName = "groq"
	Local     ProviderName = "local"
	Gemini    ProviderName = "gemini"
	Mock      ProviderName = "mock"
)

// ProviderConfig holds the settings for one provider family.
type ProviderConfig struct {
	Enabled     bool    `yaml:"enabled"`
	BaseURL     string  `yaml:"baseURL"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`

	// APIVersion is only read by the azure family.
	APIVersion string `yaml:"apiVersion,omitempty"`
}

// Config holds all AI provider configuration. Exactly one provider may be
// enabled at a time.
type Config struct {
	OpenAI    ProviderConfig `yaml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic"`
	Azure     ProviderConfig `yaml:"azure"`
	Groq      ProviderConfig `yaml:"groq"`
	Local     ProviderConfig `yaml:"local"`
	Gemini    ProviderConfig `yaml:"gemini"`

	// UseMock selects the canned MockProvider regardless of the flags above.
	UseMock bool `yaml:"-"`

	Retry RetryConfig `yaml:"retry"`

	// Timeout bounds a single request. Default: 60s.
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	InitialWait time.Duration `yaml:"initialWait"`
	MaxWait     time.Duration `yaml:"maxWait"`
	Multiplier  float64       `yaml:"multiplier"`
}

type providerEntry struct {
	name ProviderName
	cfg  *ProviderConfig
}

// entries lists the provider families in a stable order.
func (c *Config) entries() []providerEntry {
	return []providerEntry{
		{OpenAI, &c.OpenAI},
		{Anthropic, &c.Anthropic},
		{Azure, &c.Azure},
		{Groq, &c.Groq},
		{Local, &c.Local},
		{Gemini, &c.Gemini},
	}
}

// DefaultConfig returns the built-in configuration. Groq is the enabled
// provider out of the box.
func DefaultConfig() Config {
	base := ProviderConfig{MaxTokens: 2000, Temperature: 0.7}
	with := func(enabled bool, url, model string) ProviderConfig {
		pc := base
		pc.Enabled = enabled
		pc.BaseURL = url
		pc.Model = model
		return pc
	}

	azure := with(false, "https://your-resource.openai.azure.com", "your-deployment")
	azure.APIVersion = "2023-05-15"

	return Config{
		OpenAI:    with(false, "https://api.openai.com/v1", "gpt-4"),
		Anthropic: with(false, "https://api.anthropic.com/v1", "claude-3-sonnet-20240229"),
		Azure:     azure,
		Groq:      with(true, "https://api.groq.com/openai/v1", "llama3-8b-8192"),
		Local:     with(false, "http://localhost:3000/api", "local-model"),
		Gemini:    with(false, "", "gemini-flash"),
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// LoadConfig layers the YAML file at path (optional) and the environment
// over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("TUTO_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return cfg, &ConfigError{Msg: fmt.Sprintf("config file %s not found", path)}
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ConfigError{Msg: fmt.Sprintf("parse %s: %v", path, err)}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var apiKeyEnv = map[ProviderName]string{
	OpenAI:    "OPENAI_API_KEY",
	Anthropic: "ANTHROPIC_API_KEY",
	Azure:     "AZURE_OPENAI_API_KEY",
	Groq:      "GROQ_API_KEY",
	Local:     "LOCAL_AI_API_KEY",
	Gemini:    "GEMINI_API_KEY",
}

func (c *Config) applyEnv() error {
	for _, e := range c.entries() {
		if k := os.Getenv(apiKeyEnv[e.name]); k != "" {
			e.cfg.APIKey = k
		}
	}

	p := strings.ToLower(strings.TrimSpace(os.Getenv("TUTO_PROVIDER")))
	if p == "" {
		return nil
	}
	if ProviderName(p) == Mock {
		c.UseMock = true
		return nil
	}

	found := false
	for _, e := range c.entries() {
		e.cfg.Enabled = e.name == ProviderName(p)
		found = found || e.cfg.Enabled
	}
	if !found {
		return &ConfigError{Msg: fmt.Sprintf("unknown provider %q in TUTO_PROVIDER", p)}
	}
	if m := os.Getenv("TUTO_MODEL"); m != "" {
		c.Provider(ProviderName(p)).Model = m
	}
	return nil
}

// Provider returns the settings for name, or nil for an unknown family.
func (c *Config) Provider(name ProviderName) *ProviderConfig {
	for _, e := range c.entries() {
		if e.name == name {
			return e.cfg
		}
	}
	return nil
}

// Active returns the single enabled provider.
func (c Config) Active() (ProviderName, ProviderConfig, error) {
	var enabled []providerEntry
	for _, e := range c.entries() {
		if e.cfg.Enabled {
			enabled = append(enabled, e)
		}
	}

	switch len(enabled) {
	case 0:
		return "", ProviderConfig{}, &ConfigError{Msg: "no AI provider is enabled; configure your AI provider"}
	case 1:
		return enabled[0].name, *enabled[0].cfg, nil
	default:
		names := make([]string, len(enabled))
		groqOn := false
		for i, e := range enabled {
			names[i] = string(e.name)
			groqOn = groqOn || e.name == Groq
		}
		msg := fmt.Sprintf("more than one AI provider is enabled (%s); enable exactly one", strings.Join(names, ", "))
		if groqOn {
			msg += " (groq is enabled by default: set groq.enabled: false in the config file, or select one with TUTO_PROVIDER)"
		}
		return "", ProviderConfig{}, &ConfigError{Msg: msg}
	}
}

// Validate checks that the active provider is usable.
func (c Config) Validate() error {
	if c.UseMock {
		return nil
	}
	name, pc, err := c.Active()
	if err != nil {
		return err
	}

	if name != Gemini && pc.BaseURL == "" {
		return &ConfigError{Msg: fmt.Sprintf("%s provider has no base URL", name)}
	}
	if pc.Model == "" {
		return &ConfigError{Msg: fmt.Sprintf("%s provider has no model", name)}
	}
	if name == Local {
		return nil
	}
	if pc.APIKey == "" {
		return &ConfigError{Msg: fmt.Sprintf("%s is required for the %s provider", apiKeyEnv[name], name)}
	}
	if isPlaceholderKey(pc.APIKey) {
		return &ConfigError{Msg: fmt.Sprintf("the %s API key is a placeholder; configure your AI provider", name)}
	}
	return nil
}

func isPlaceholderKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "your-") || strings.Contains(k, "api-key-here")
}
