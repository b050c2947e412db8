// Package filesystem reads source documents from a local directory and
// reports changes to it for rebuild-on-change workflows.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cloudops-labs/opsrag-cli/internal/core/domain"
	"github.com/cloudops-labs/opsrag-cli/internal/core/ports/driven"
	"github.com/cloudops-labs/opsrag-cli/internal/logger"
)

// Compile-time interface check.
var _ driven.DocumentSource = (*Connector)(nil)

// defaultExtensions are the document types loaded when none are
// configured explicitly.
var defaultExtensions = []string{".md", ".txt"}

// Connector loads documents from a single directory. Subdirectories
// are not descended into; the docs directory is treated as a flat
// corpus.
type Connector struct {
	rootPath   string
	extensions []string
	watcher    *fsnotify.Watcher
}

// Option configures a Connector.
type Option func(*Connector)

// WithExtensions overrides the file extensions considered documents.
// Extensions must include the leading dot.
func WithExtensions(exts []string) Option {
	return func(c *Connector) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// New creates a filesystem connector rooted at rootPath.
func New(rootPath string, opts ...Option) *Connector {
	c := &Connector{
		rootPath:   rootPath,
		extensions: defaultExtensions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Documents reads every matching file in the root directory. Files
// that cannot be read are skipped with a warning; empty files are
// skipped silently. Returns an error only if the directory itself
// cannot be listed.
func (c *Connector) Documents(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read docs directory %s: %w", c.rootPath, err)
	}

	var docs []domain.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !c.matches(entry.Name()) {
			continue
		}

		path := filepath.Join(c.rootPath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable document %s: %v", path, err)
			continue
		}

		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}

		docs = append(docs, domain.Document{
			SourceFile: entry.Name(),
			Content:    content,
			LoadedAt:   time.Now(),
		})
	}

	return docs, nil
}

// Watch reports paths of changed documents until the context is
// cancelled. The returned channel is closed when watching stops.
func (c *Connector) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	c.watcher = watcher

	changes := make(chan string)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !c.matches(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case changes <- event.Name:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close releases the watcher if one is active.
func (c *Connector) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

func (c *Connector) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range c.extensions {
		if ext == want {
			return true
		}
	}
	return false
}
