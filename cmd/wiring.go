package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/ftva-etl/internal/alma"
	"github.com/lehigh-university-libraries/ftva-etl/internal/config"
	"github.com/lehigh-university-libraries/ftva-etl/internal/digitaldata"
	"github.com/lehigh-university-libraries/ftva-etl/internal/etl"
	"github.com/lehigh-university-libraries/ftva-etl/internal/filemaker"
	"github.com/lehigh-university-libraries/ftva-etl/internal/gemini"
	"github.com/lehigh-university-libraries/ftva-etl/internal/handlers"
	"github.com/lehigh-university-libraries/ftva-etl/internal/httpx"
	"github.com/lehigh-university-libraries/ftva-etl/internal/language"
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
	"github.com/lehigh-university-libraries/ftva-etl/internal/ner"
	"github.com/lehigh-university-libraries/ftva-etl/internal/ollama"
	"github.com/lehigh-university-libraries/ftva-etl/internal/openai"
)

const userAgent = "ftva-etl/" + Version

// Version is reported by --version and sent as the collaborators' User-Agent.
const Version = "0.1.0"

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newComposer builds the metadata composer. It needs no collaborator
// credentials, so local-file composition works offline with the rules
// recognizer.
func newComposer(cfg *config.Config, client *http.Client, metrics *handlers.Metrics) (*metadata.Composer, error) {
	languages, err := loadLanguages(cfg.LanguageMapFile)
	if err != nil {
		return nil, err
	}
	recognizer, err := newRecognizer(cfg.NER, metrics.InstrumentClient("ner", client))
	if err != nil {
		return nil, err
	}
	return metadata.NewComposer(languages, recognizer)
}

func loadLanguages(path string) (*language.Table, error) {
	if path == "" {
		return language.Default()
	}
	table, err := language.LoadFile(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded language map", "path", path, "codes", table.Len())
	return table, nil
}

func newRecognizer(cfg config.NERConfig, client *http.Client) (ner.Recognizer, error) {
	var llm *ner.LLM
	switch cfg.Provider {
	case config.ProviderRules:
		var names *ner.Names
		if cfg.NamesFile != "" {
			loaded, err := ner.LoadNamesFile(cfg.NamesFile)
			if err != nil {
				return nil, err
			}
			slog.Debug("Loaded known names", "path", cfg.NamesFile, "names", loaded.Len())
			names = loaded
		}
		return ner.NewRuleBased(names), nil
	case config.ProviderOllama:
		llm = ner.NewLLM(ollama.New(cfg.OllamaURL, client), cfg.Model)
	case config.ProviderOpenAI:
		llm = ner.NewLLM(openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL, client), cfg.Model)
	case config.ProviderGemini:
		llm = ner.NewLLM(gemini.New(cfg.GeminiAPIKey), cfg.Model)
	default:
		return nil, fmt.Errorf("unknown NER provider %q", cfg.Provider)
	}
	slog.Debug("Using LLM entity recognizer", "provider", cfg.Provider, "model", cfg.Model)
	return llm.WithTemperature(cfg.Temperature), nil
}

// collaborators holds the network clients behind an etl.Service.
type collaborators struct {
	alma        *alma.Client
	fileMaker   *filemaker.Client
	digitalData *digitaldata.Client
}

func newCollaborators(cfg *config.Config, client *http.Client, metrics *handlers.Metrics) collaborators {
	return collaborators{
		alma: alma.NewClient(cfg.Alma.SRUURL, metrics.InstrumentClient("alma", client)),
		fileMaker: filemaker.NewClient(filemaker.Config{
			URL:        cfg.FileMaker.URL,
			User:       cfg.FileMaker.User,
			Password:   cfg.FileMaker.Password,
			Database:   cfg.FileMaker.Database,
			Layout:     cfg.FileMaker.Layout,
			APIVersion: cfg.FileMaker.APIVersion,
		}, metrics.InstrumentClient("filemaker", client)),
		digitalData: digitaldata.NewClient(
			cfg.DigitalData.URL,
			cfg.DigitalData.User,
			cfg.DigitalData.Password,
			metrics.InstrumentClient("digital_data", client),
		),
	}
}

// newService wires the full pipeline. The caller must Close the FileMaker
// client to release its session.
func newService(cfg *config.Config, metrics *handlers.Metrics) (*etl.Service, *filemaker.Client, error) {
	if err := cfg.ValidateCollaborators(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := httpx.NewClient(cfg.HTTP.Timeout, cfg.HTTP.RetryMax, userAgent)
	composer, err := newComposer(cfg, client, metrics)
	if err != nil {
		return nil, nil, err
	}

	c := newCollaborators(cfg, client, metrics)
	return etl.NewService(c.alma, c.fileMaker, c.digitalData, composer, cfg.LibraryCode), c.fileMaker, nil
}
