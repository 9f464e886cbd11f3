package worker

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TFHGit/skumaster_api/internal/service"
)

// ImageNameLister returns the stored image paths currently referenced by the
// database. Satisfied by repository.SKUMasterRepository.
type ImageNameLister interface {
	ReferencedImageNames(ctx context.Context) ([]string, error)
}

// OrphanImageWorker periodically deletes image files that no database row
// references. A rolled-back update can strand a freshly saved file; the
// database stays consistent, the sweep reclaims the disk.
type OrphanImageWorker struct {
	repo     ImageNameLister
	files    *service.FileService
	dir      string
	interval time.Duration
	grace    time.Duration
}

// NewOrphanImageWorker constructs an OrphanImageWorker over the given images
// directory. Files younger than grace are never touched, so uploads whose
// transaction has not committed yet are safe from the sweep.
func NewOrphanImageWorker(repo ImageNameLister, files *service.FileService, dir string, interval, grace time.Duration) *OrphanImageWorker {
	return &OrphanImageWorker{
		repo:     repo,
		files:    files,
		dir:      dir,
		interval: interval,
		grace:    grace,
	}
}

// Start begins the periodic sweep loop and listens for context cancellation.
func (w *OrphanImageWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Str("dir", w.dir).Msg("Starting orphan image worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Orphan image worker stopped")
			return
		}
	}
}

func (w *OrphanImageWorker) run(ctx context.Context) {
	start := time.Now()

	names, err := w.repo.ReferencedImageNames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list referenced image names")
		return
	}
	referenced := make(map[string]bool, len(names))
	for _, n := range names {
		referenced[filepath.Base(n)] = true
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Error().Err(err).Str("dir", w.dir).Msg("Failed to read images directory")
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < w.grace {
			continue
		}
		if w.files.Delete(filepath.Join(w.dir, entry.Name())) {
			removed++
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Dur("duration", time.Since(start)).Msg("Orphan image sweep completed")
	}
}
