package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/textwave/ai-api-service/config"
	"github.com/textwave/ai-api-service/services/dispatch"
	"github.com/textwave/ai-api-service/services/providers"
	"github.com/textwave/ai-api-service/services/providers/groq"
	"github.com/textwave/ai-api-service/services/providers/huggingface"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *providers.Registry
	Dispatcher *dispatch.Service
}

// NewDependencies creates and wires up all application dependencies. The
// provider chain is built here, once, in configuration order: Groq primary,
// Hugging Face secondary. Construction fails when zero providers are
// enabled, so a misconfigured process never serves a request.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.Dispatcher = dispatch.NewService(deps.Registry, logger)

	logger.Info("all dependencies initialized",
		zap.Int("providers_enabled", deps.Registry.Count()))
	return deps, nil
}

// initProviders builds the provider registry from configuration.
func (d *Dependencies) initProviders(cfg *config.Config) error {
	groqDesc := descriptorFor("groq", cfg.Providers.Groq)
	hfDesc := descriptorFor("huggingface", cfg.Providers.HuggingFace)

	registry, err := providers.NewRegistry(
		providers.ChainEntry{Descriptor: groqDesc, Client: groq.NewClient(groqDesc)},
		providers.ChainEntry{Descriptor: hfDesc, Client: huggingface.NewClient(hfDesc)},
	)
	if err != nil {
		return err
	}
	d.Registry = registry

	for _, entry := range registry.Chain() {
		d.Logger.Info("provider configured",
			zap.String("provider", entry.Descriptor.Name),
			zap.String("model", entry.Descriptor.Model),
			zap.Duration("timeout", entry.Descriptor.Timeout),
			zap.Bool("enabled", entry.Descriptor.Enabled))
	}

	return nil
}

func descriptorFor(name string, pcfg config.ProviderConfig) providers.Descriptor {
	return providers.Descriptor{
		Name:    name,
		BaseURL: pcfg.BaseURL,
		Model:   pcfg.Model,
		APIKey:  pcfg.APIKey,
		Timeout: pcfg.Timeout,
		Enabled: pcfg.Enabled,
	}
}
