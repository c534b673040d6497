package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events an editor emits on save.
const debounce = 100 * time.Millisecond

// watch generates the model, then regenerates it on every change of the
// model file until ctx is done. Generation failures are logged and do not
// stop watching.
func watch(ctx context.Context, o *options, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("rengen: create watcher: %w", err)
	}
	defer w.Close()

	model := filepath.Clean(o.model)
	// Editors often replace the file on save, so watch its directory.
	if err := w.Add(filepath.Dir(model)); err != nil {
		return fmt.Errorf("rengen: watch %s: %w", model, err)
	}

	regenerate := func() {
		if err := generate(ctx, o, logger); err != nil {
			logger.Error("regeneration failed", "path", model, "error", err)
		}
	}
	regenerate()
	logger.Info("watching model", "path", model)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching", "path", model)
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != model || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("model changed", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			regenerate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}
