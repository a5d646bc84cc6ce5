// Package watcher runs a callback when files settle in a directory.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
)

// Handler is invoked once per burst of file events.
type Handler func(ctx context.Context) error

// Watcher debounces create, write and rename events in one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	ready    chan struct{}
}

// New creates a Watcher for dir. The handler runs after no event has
// arrived for the debounce period.
func New(dir string, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Handler errors are logged; only
// cancellation of a running handler is returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.NewInternalError("cannot create file watcher", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return apperrors.NewIOError("cannot watch directory", err).WithDetails(w.dir)
	}
	close(w.ready)

	logger.WithFields(logrus.Fields{
		"dir":      w.dir,
		"debounce": w.debounce.String(),
	}).Info("Watching drop zone")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.WithFields(logrus.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Drop zone changed")

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("File watcher error")

		case <-fire:
			fire = nil
			timer = nil
			if err := w.handler(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.WithError(err).Error("Drop zone handler failed")
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
