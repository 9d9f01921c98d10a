package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"

	"github.com/bassista/go_storefront/internal/logger"
)

// JSONRepository handles disk persistence and watching of the seed/backup file.
type JSONRepository struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate
	mu        sync.Mutex
}

// NewJSONRepository creates a repository for the given JSON file path.
func NewJSONRepository(path string) (*JSONRepository, error) {
	if path == "" {
		return nil, errors.New("seed file path is required")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	return &JSONRepository{path: path, dir: dir, base: base, validator: NewValidator()}, nil
}

func (r *JSONRepository) Path() string {
	return r.path
}

// Load reads the JSON file, parses and validates it.
func (r *JSONRepository) Load() (*DataDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// loadUnlocked reads the JSON file without acquiring the lock (caller must hold it).
func (r *JSONRepository) loadUnlocked() (*DataDocument, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	var doc DataDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	doc.ApplyDefaults()

	if err := ValidateDocument(r.validator, &doc); err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}

	return &doc, nil
}

// Save validates and writes the document atomically to disk.
func (r *JSONRepository) Save(doc *DataDocument) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := ValidateDocument(r.validator, doc); err != nil {
		return fmt.Errorf("validate before save: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveUnlocked(doc)
}

// saveUnlocked writes the document without acquiring the lock (caller must hold it).
func (r *JSONRepository) saveUnlocked(doc *DataDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create seed directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(r.dir, r.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.path); err != nil {
		return fmt.Errorf("replace seed file: %w", err)
	}

	return nil
}

// StartWatcher listens for changes to the seed file and reloads target after debounce.
// It watches the parent directory (not the file) so atomic replace sequences (temp+rename)
// are still observed. Events are filtered by basename and debounced to avoid double
// reloads on write+chmod/rename cycles. Cancel ctx to stop the goroutine.
func (r *JSONRepository) StartWatcher(ctx context.Context, target DefaultsTarget) error {
	onChange := r.MakeWatcherCallback(target)

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create seed directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, onChange)
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != r.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("seed").Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// MakeWatcherCallback returns a callback that reloads the seed file into target when it changed.
func (r *JSONRepository) MakeWatcherCallback(target DefaultsTarget) func() {
	return func() {
		diskDoc, err := r.Load()
		if err != nil {
			logger.WithComponent("seed").Warnf("seed reload failed: %v", err)
			return
		}
		current := target.Document()
		if AreDataDocumentsEqual(&current, diskDoc) {
			logger.WithComponent("seed").Debug("seed file unchanged, skipping reload")
			return
		}
		target.Replace(*diskDoc)
		logger.WithComponent("seed").Info("default dataset reloaded from seed file")
	}
}

// LoadInto applies the seed file to target if it exists. A missing file is not an error.
func (r *JSONRepository) LoadInto(target DefaultsTarget) error {
	doc, err := r.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	target.Replace(*doc)
	return nil
}
