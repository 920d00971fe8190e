package pipeline

import (
	"fmt"

	"campaignbuilder/internal/composer"
	"campaignbuilder/internal/infra"
	"campaignbuilder/internal/slicer"
	"campaignbuilder/internal/storage"
)

// FromConfig builds an Orchestrator backed by a FileStore rooted at
// cfg.DataDir, loading the template catalog when one is configured.
func FromConfig(cfg *infra.Config, logger infra.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	catalog := composer.NewCatalog()
	if cfg.TemplateCatalog != "" {
		catalog, err = composer.LoadCatalog(cfg.TemplateCatalog)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.TemplateCatalog).Strs("templates", catalog.Names()).Msg("template catalog loaded")
	}
	return New(store, logger,
		WithCatalog(catalog),
		WithSlicer(slicer.New(store, slicer.WithCount(cfg.BlockCount))),
		WithDefaultCTA(cfg.DefaultCTAURL),
	), nil
}
