package chat

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// TemplateWatcher reloads a prompt template file whenever it changes on
// disk. Sessions created after a reload use the new template; existing
// sessions keep the prompt they were created with.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	builder  *PromptBuilder
	path     string
	done     chan struct{}
	stopOnce sync.Once
}

// NewTemplateWatcher creates a watcher for the given template file and
// performs an initial load.
func NewTemplateWatcher(builder *PromptBuilder, path string) (*TemplateWatcher, error) {
	if err := builder.LoadTemplateFile(path); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &TemplateWatcher{
		watcher: watcher,
		builder: builder,
		path:    path,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the template file for changes.
func (w *TemplateWatcher) Start() error {
	// Watch the directory: editors replace files on save, which would
	// otherwise drop the watch on the file itself.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch template directory: %w", err)
	}

	go w.run()

	log.Info().Str("path", w.path).Msg("Prompt template watcher started")
	return nil
}

// Stop stops the watcher.
func (w *TemplateWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *TemplateWatcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.builder.LoadTemplateFile(w.path); err != nil {
				log.Warn().Str("path", w.path).Err(err).Msg("Failed to reload prompt template, keeping previous")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Prompt template watcher error")
		case <-w.done:
			return
		}
	}
}
