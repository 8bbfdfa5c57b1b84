// Package importer watches a drop directory and syncs markdown files
// placed there into a single owner's library. Files are imported under a
// note id derived from the filename, so re-saving a file updates the
// same note instead of creating a new one.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/slug"
)

// settleDelay is how long a file must be quiet after the last write
// before it is imported. Editors often write in several bursts.
const settleDelay = 500 * time.Millisecond

// Importer watches a directory for markdown files and upserts them.
type Importer struct {
	dir     string
	ownerID string
	sync    *service.SyncService
	logger  *slog.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer // path -> settle timer

	done     chan struct{}
	stopOnce sync.Once
}

// New creates an importer for the given drop directory and owner.
func New(dir, ownerID string, syncSvc *service.SyncService, logger *slog.Logger) (*Importer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Importer{
		dir:     filepath.Clean(dir),
		ownerID: ownerID,
		sync:    syncSvc,
		logger:  logger,
		watcher: watcher,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}, nil
}

// Start imports the files already present in the directory, then blocks
// processing filesystem events until ctx is canceled or Stop is called.
func (i *Importer) Start(ctx context.Context) error {
	if err := i.ImportDir(ctx); err != nil {
		return err
	}

	if err := i.watcher.Add(i.dir); err != nil {
		return fmt.Errorf("watch %s: %w", i.dir, err)
	}

	i.logger.Info("import watcher started", "dir", i.dir, "owner_id", i.ownerID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-i.done:
			return nil
		case event, ok := <-i.watcher.Events:
			if !ok {
				return nil
			}
			i.handleEvent(ctx, event)
		case err, ok := <-i.watcher.Errors:
			if !ok {
				return nil
			}
			i.logger.Warn("watcher error", "error", err)
		}
	}
}

// Stop shuts the importer down and cancels pending settle timers.
func (i *Importer) Stop() error {
	i.stopOnce.Do(func() {
		close(i.done)
		i.mu.Lock()
		for path, timer := range i.pending {
			timer.Stop()
			delete(i.pending, path)
		}
		i.mu.Unlock()
	})
	return i.watcher.Close()
}

// ImportDir imports every markdown file currently in the directory.
func (i *Importer) ImportDir(ctx context.Context) error {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		return fmt.Errorf("read import dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isMarkdown(entry.Name()) {
			continue
		}
		if err := i.ImportFile(ctx, filepath.Join(i.dir, entry.Name())); err != nil {
			i.logger.Warn("failed to import file", "path", entry.Name(), "error", err)
		}
	}
	return nil
}

// ImportFile reads a single markdown file and upserts it into the
// owner's library. The note id is the slugified filename (extension
// dropped) prefixed with "import-"; the file's mtime becomes the note's
// last-modified timestamp, so the conditional upsert keeps newer
// synced edits over a stale re-import.
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	noteID := NoteID(filepath.Base(path))
	results, err := i.sync.Upsert(ctx, i.ownerID, []service.NoteInput{{
		ID:           noteID,
		Markdown:     string(data),
		SourceName:   "import:" + filepath.Base(path),
		LastModified: info.ModTime().UnixMilli(),
	}})
	if err != nil {
		return err
	}

	i.logger.Info("file imported",
		"path", filepath.Base(path),
		"note_id", noteID,
		"applied", results[0].Applied,
	)
	return nil
}

// NoteID derives the stable note id for a dropped filename.
func NoteID(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return "import-" + slug.Make(base)
}

// handleEvent debounces write bursts: each write resets the file's
// settle timer, and the import runs once the file has been quiet.
func (i *Importer) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if !isMarkdown(path) {
		return
	}

	if event.Op&fsnotify.Remove != 0 {
		i.cancelPending(path)
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if timer, ok := i.pending[path]; ok {
		timer.Stop()
	}
	i.pending[path] = time.AfterFunc(settleDelay, func() {
		i.cancelPending(path)
		if err := i.ImportFile(ctx, path); err != nil {
			if !isNotExist(err) {
				i.logger.Warn("failed to import file", "path", path, "error", err)
			}
		}
	})
}

func (i *Importer) cancelPending(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if timer, ok := i.pending[path]; ok {
		timer.Stop()
		delete(i.pending, path)
	}
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
