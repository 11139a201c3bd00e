// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package loader

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a snapshot file when it changes on disk.
//
// # Description
//
// Watches the file's parent directory so editors that replace the file
// via rename are still observed. Write bursts are debounced; only the
// last event in a window triggers a reload. A failed reload keeps the
// previous snapshot active.
//
// # Thread Safety
//
// Safe for concurrent use. Reloads happen on a single goroutine.
type Watcher struct {
	loader   *Loader
	path     string
	debounce time.Duration

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// DefaultDebounce is the reload debounce window when none is given.
const DefaultDebounce = 500 * time.Millisecond

// NewWatcher creates a watcher for the snapshot file at path.
// debounce <= 0 selects DefaultDebounce.
func NewWatcher(loader *Loader, path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		loader:   loader,
		path:     filepath.Clean(path),
		debounce: debounce,
		watcher:  fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns after registering the watch; events
// are handled on a background goroutine until Stop or context cancel.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		if _, err := w.loader.LoadFile(ctx, w.path); err != nil {
			slog.Warn("snapshot reload failed, keeping previous snapshot",
				"path", w.path, "error", err.Error())
		}
		timer = nil
		timerC = nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watcher error", "error", err.Error())
		}
	}
}
