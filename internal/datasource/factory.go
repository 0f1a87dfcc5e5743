package datasource

import (
	"fmt"
	"log"

	"github.com/yourusername/gameline/internal/config"
)

// Factory creates GameSource implementations based on configuration
type Factory struct {
	gateway *Gateway
	logger  *log.Logger
}

// NewFactory creates a new data source factory
func NewFactory(gateway *Gateway, logger *log.Logger) *Factory {
	return &Factory{
		gateway: gateway,
		logger:  logger,
	}
}

// NewGameSource creates a single GameSource from its configuration.
func (f *Factory) NewGameSource(cfg config.SourceConfig) (GameSource, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("source %s: base_url is required", cfg.Name)
	}
	return NewScoreboardClient(f.gateway, cfg.Name, cfg.BaseURL, cfg.APIKey, cfg.Enabled, f.logger), nil
}

// NewGameSources creates all enabled game sources from configuration,
// preserving configured order so the pipeline tries them in priority order.
func (f *Factory) NewGameSources(cfg config.SourcesConfig) ([]GameSource, error) {
	var sources []GameSource

	for _, srcCfg := range cfg.Endpoints {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.Printf("Skipping disabled data source: %s", srcCfg.Name)
			}
			continue
		}

		source, err := f.NewGameSource(srcCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.Printf("Created data source: %s", srcCfg.Name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
