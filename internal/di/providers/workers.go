package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/importer"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// ImporterHandle wraps the markdown drop-directory importer with its
// context for lifecycle management. Importer is nil when no watch path
// is configured.
type ImporterHandle struct {
	*importer.Importer
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImporterHandle) Shutdown() error {
	if h.Importer == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideImporter provides the markdown import watcher.
func ProvideImporter(i do.Injector) (*ImporterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.WatchPath == "" {
		log.Info("Markdown import disabled - no watch path configured")
		return &ImporterHandle{Importer: nil}, nil
	}

	syncService := do.MustInvoke[*service.SyncService](i)

	imp, err := importer.New(cfg.Import.WatchPath, cfg.Import.Owner, syncService, log.Logger)
	if err != nil {
		return nil, err
	}

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := imp.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Import watcher stopped", "error", err)
		}
	}()

	log.Info("Import watcher starting", "dir", cfg.Import.WatchPath, "owner", cfg.Import.Owner)

	return &ImporterHandle{Importer: imp, cancel: cancel}, nil
}
