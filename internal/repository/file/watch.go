package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce groups the burst of events an editor or a rename produces.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the store whenever the document is changed by another
// process. Writes made by this repository are recognized by their digest
// and ignored. It blocks until ctx is done. mu guards the store and must be
// the same lock the callers of the repository hold.
func (r *Repository) Watch(ctx context.Context, mu sync.Locker) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory is watched because atomic replaces swap the file's inode.
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		return err
	}
	r.logger.Info("watching document for external changes")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != r.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watch error", zap.Error(err))
		case <-fire:
			fire = nil
			mu.Lock()
			changed, err := r.reloadIfChanged()
			mu.Unlock()
			if err != nil {
				r.logger.Error("reload after external change failed, keeping current state", zap.Error(err))
			} else if changed {
				r.logger.Info("reloaded document after external change")
			}
		}
	}
}

// reloadIfChanged reloads only when the document differs from what this
// repository last read or wrote. A removed or malformed document is left
// alone and the current collections are kept until the next write.
func (r *Repository) reloadIfChanged() (bool, error) {
	if r.closed {
		return false, nil
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	sum := sha256.Sum256(raw)
	if bytes.Equal(sum[:], r.digest[:]) {
		return false, nil
	}
	r.digest = sum
	doc, err := decodeDocument(raw)
	if err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}
	r.restore(doc)
	return true, nil
}
