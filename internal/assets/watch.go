package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch evicts cached assets when their files change under any search root.
// It blocks until ctx is cancelled. Each evicted name is sent to changed
// when it is non-nil; sends do not block.
func (m *Manager) Watch(ctx context.Context, changed chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	roots := m.Roots()
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}
	m.log.Debug("watching asset roots", zap.Strings("roots", roots))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := relativeName(roots, ev.Name)
			if !ok {
				continue
			}
			m.Invalidate(name)
			m.log.Debug("asset changed", zap.String("name", name), zap.Stringer("op", ev.Op))
			if changed != nil {
				select {
				case changed <- name:
				default:
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warn("watch error", zap.Error(err))
		}
	}
}

// relativeName maps an absolute path back to the name it is cached under.
func relativeName(roots []string, path string) (string, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return cacheKey(rel), true
	}
	return "", false
}
