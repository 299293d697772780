// Package bootstrap builds the analysis stack selected by configuration.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/sentiment"
)

// Components is everything the entry points share.
type Components struct {
	Cache *analysis.ResultCache
	// HuggingFace is set when either backend talks to the hosted models.
	HuggingFace *clients.HuggingFaceClient

	closers []func()
}

func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func AnalysisOptions(cfg config.AnalysisConfig) analysis.Options {
	return analysis.Options{
		NeutralThreshold: cfg.NeutralThreshold,
		MaxLength:        cfg.MaxCommentLength,
		Themes: analysis.ThemeOptions{
			MinFrequency: cfg.KeywordMinFrequency,
			MinLength:    cfg.KeywordMinLength,
			MaxThemes:    cfg.MaxThemes,
		},
		MaxSuggestions: cfg.MaxSuggestions,
		Summary: analysis.SummaryOptions{
			MinWords:  cfg.SummaryMinWords,
			MinLength: cfg.SummaryMinLength,
			MaxLength: cfg.SummaryMaxLength,
		},
	}
}

// Build wires the classifier, summarizer and result cache. Callers must
// Close the returned Components.
func Build(cfg config.Config) (*Components, error) {
	c := &Components{}
	if cfg.Backends.Classifier == config.ClassifierHuggingFace || cfg.Backends.Summarizer == config.SummarizerHuggingFace {
		c.HuggingFace = clients.NewHuggingFaceClient(cfg.HuggingFace)
	}

	classifier, err := c.classifier(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	summarizer, err := c.summarizer(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	cacheCfg := analysis.CacheConfig{
		Capacity:       cfg.Cache.Capacity,
		DedupeInFlight: cfg.Cache.DedupeInFlight,
		SharedTTL:      cfg.Cache.SharedTTL,
	}
	if cfg.Valkey.Address != "" {
		valkey, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("shared cache: %w", err)
		}
		c.closers = append(c.closers, valkey.Close)
		cacheCfg.Shared = valkey
	}

	cache, err := analysis.NewResultCache(analysis.NewAnalyzer(classifier, summarizer, AnalysisOptions(cfg.Analysis)), cacheCfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Cache = cache

	slog.Info("[Bootstrap] Analysis stack ready",
		slog.String("classifier", cfg.Backends.Classifier),
		slog.String("summarizer", cfg.Backends.Summarizer),
		slog.Bool("shared_cache", cacheCfg.Shared != nil))
	return c, nil
}

func (c *Components) classifier(cfg config.Config) (analysis.Classifier, error) {
	switch cfg.Backends.Classifier {
	case config.ClassifierHuggingFace:
		return c.HuggingFace, nil
	case config.ClassifierVader:
		return sentiment.NewVaderClassifier(), nil
	case config.ClassifierONNX:
		hugot, err := sentiment.NewHugotClassifier(cfg.ONNX)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, hugot.Close)
		return hugot, nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backends.Classifier)
	}
}

func (c *Components) summarizer(cfg config.Config) (analysis.Summarizer, error) {
	switch cfg.Backends.Summarizer {
	case config.SummarizerHuggingFace:
		return c.HuggingFace, nil
	case config.SummarizerOpenAI:
		return clients.NewOpenAIClient(cfg.OpenAI)
	case config.SummarizerNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Backends.Summarizer)
	}
}
