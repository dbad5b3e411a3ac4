// Package config loads ftva-etl settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/ftva-etl/internal/alma"
	"github.com/lehigh-university-libraries/ftva-etl/internal/digitaldata"
	"github.com/lehigh-university-libraries/ftva-etl/internal/filemaker"
	"github.com/lehigh-university-libraries/ftva-etl/internal/httpx"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable holding the config file path.
const EnvConfigFile = "FTVA_ETL_CONFIG"

// Recognizer providers.
const (
	ProviderRules  = "rules"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is the complete application configuration
type Config struct {
	LibraryCode     string            `yaml:"library_code"`
	LanguageMapFile string            `yaml:"language_map_file"`
	HTTP            HTTPConfig        `yaml:"http"`
	Alma            AlmaConfig        `yaml:"alma"`
	FileMaker       FileMakerConfig   `yaml:"filemaker"`
	DigitalData     DigitalDataConfig `yaml:"digital_data"`
	NER             NERConfig         `yaml:"ner"`
}

// HTTPConfig applies to every collaborator client
type HTTPConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	RetryMax int           `yaml:"retry_max"`
}

// AlmaConfig locates the Alma SRU endpoint
type AlmaConfig struct {
	SRUURL string `yaml:"sru_url"`
}

// FileMakerConfig holds FileMaker Data API settings
type FileMakerConfig struct {
	URL        string `yaml:"url"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	Layout     string `yaml:"layout"`
	APIVersion string `yaml:"api_version"`
}

// DigitalDataConfig holds Digital Data service settings
type DigitalDataConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// NERConfig selects the named-entity recognizer used for creators
type NERConfig struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	NamesFile    string  `yaml:"names_file"`
	OllamaURL    string  `yaml:"ollama_url"`
	OpenAIURL    string  `yaml:"openai_url"`
	OpenAIAPIKey string  `yaml:"-"`
	GeminiAPIKey string  `yaml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LibraryCode: "ftva",
		HTTP: HTTPConfig{
			Timeout:  httpx.DefaultTimeout,
			RetryMax: httpx.DefaultRetryMax,
		},
		Alma: AlmaConfig{SRUURL: alma.DefaultSRUURL},
		FileMaker: FileMakerConfig{
			URL:        filemaker.DefaultURL,
			Database:   filemaker.DefaultDatabase,
			Layout:     filemaker.DefaultLayout,
			APIVersion: filemaker.DefaultAPIVersion,
		},
		DigitalData: DigitalDataConfig{URL: digitaldata.DefaultURL},
		NER:         NERConfig{Provider: ProviderRules},
	}
}

// Load builds the configuration. path may be empty, in which case the
// FTVA_ETL_CONFIG variable is consulted; a missing file is only an error when
// a path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			slog.Debug("Loaded config file", "path", path)
		case errors.Is(err, os.ErrNotExist) && !explicit:
			slog.Debug("Config file not found", "path", path)
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.LibraryCode, "LIBRARY_CODE")
	setString(&c.LanguageMapFile, "LANGUAGE_MAP_FILE")
	setString(&c.Alma.SRUURL, "ALMA_SRU_URL")
	setString(&c.FileMaker.URL, "FILEMAKER_URL")
	setString(&c.FileMaker.User, "FILEMAKER_USER")
	setString(&c.FileMaker.Password, "FILEMAKER_PASSWORD")
	setString(&c.FileMaker.Database, "FILEMAKER_DATABASE")
	setString(&c.FileMaker.Layout, "FILEMAKER_LAYOUT")
	setString(&c.DigitalData.URL, "DIGITAL_DATA_URL")
	setString(&c.DigitalData.User, "DIGITAL_DATA_USER")
	setString(&c.DigitalData.Password, "DIGITAL_DATA_PASSWORD")
	setString(&c.NER.Provider, "NER_PROVIDER")
	setString(&c.NER.Model, "NER_MODEL")
	setString(&c.NER.NamesFile, "NER_NAMES_FILE")
	setString(&c.NER.OllamaURL, "OLLAMA_URL")
	setString(&c.NER.OpenAIURL, "OPENAI_URL")
	setString(&c.NER.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.NER.GeminiAPIKey, "GEMINI_API_KEY")

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv("HTTP_RETRY_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_RETRY_MAX %q: %w", v, err)
		}
		c.HTTP.RetryMax = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks settings needed by every command
func (c *Config) Validate() error {
	if c.LibraryCode == "" {
		return errors.New("library code is required")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if c.HTTP.RetryMax < 0 {
		return errors.New("http retry_max must not be negative")
	}

	switch c.NER.Provider {
	case ProviderRules, ProviderOllama:
	case ProviderOpenAI:
		if c.NER.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai recognizer")
		}
	case ProviderGemini:
		if c.NER.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini recognizer")
		}
	default:
		return fmt.Errorf("unknown NER provider %q", c.NER.Provider)
	}
	if c.NER.Provider != ProviderRules && c.NER.Model == "" {
		return fmt.Errorf("a model is required for the %s recognizer", c.NER.Provider)
	}
	return nil
}

// ValidateCollaborators checks the credentials needed to reach FileMaker and
// Digital Data
func (c *Config) ValidateCollaborators() error {
	var errs []error
	if c.FileMaker.User == "" || c.FileMaker.Password == "" {
		errs = append(errs, errors.New("FILEMAKER_USER and FILEMAKER_PASSWORD are required"))
	}
	if c.DigitalData.User == "" || c.DigitalData.Password == "" {
		errs = append(errs, errors.New("DIGITAL_DATA_USER and DIGITAL_DATA_PASSWORD are required"))
	}
	if c.Alma.SRUURL == "" {
		errs = append(errs, errors.New("ALMA_SRU_URL is required"))
	}
	return errors.Join(errs...)
}
