// Package devicewatch instantiates one independent engine per detected
// gpiochip device, each with its own state and no shared process-wide
// state, watching udev for device arrival/removal rather than assuming a
// fixed device set.
package devicewatch

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jochenvg/go-udev"

	"github.com/kf0lvi/pario32/internal/engine"
)

// EngineFactory builds a fresh engine for a newly arrived device path.
type EngineFactory func(devicePath string) (*engine.Engine, error)

// Watcher tracks one engine per live gpiochip device.
type Watcher struct {
	newEngine EngineFactory
	log       *log.Logger

	mu      sync.Mutex
	engines map[string]*engine.Engine
}

// New builds a Watcher that calls factory once per device arrival.
func New(factory EngineFactory) *Watcher {
	return &Watcher{
		newEngine: factory,
		log:       log.NewWithOptions(os.Stderr, log.Options{Prefix: "devicewatch"}),
		engines:   make(map[string]*engine.Engine),
	}
}

// Run watches udev for gpiochip subsystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("gpio"); err != nil {
		return err
	}

	deviceCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			w.log.Error("udev monitor error", "err", err)
		case dev := <-deviceCh:
			w.handle(dev)
		}
	}
}

func (w *Watcher) handle(dev *udev.Device) {
	path := dev.Syspath()

	switch dev.Action() {
	case "add":
		eng, err := w.newEngine(path)
		if err != nil {
			w.log.Error("starting engine for device", "path", path, "err", err)
			return
		}
		w.mu.Lock()
		w.engines[path] = eng
		w.mu.Unlock()
		w.log.Info("engine started", "path", path)

	case "remove":
		w.mu.Lock()
		delete(w.engines, path)
		w.mu.Unlock()
		w.log.Info("engine stopped", "path", path)
	}
}

// Engine returns the engine instance for a device path, if one is live.
func (w *Watcher) Engine(devicePath string) (*engine.Engine, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.engines[devicePath]
	return e, ok
}

// Len reports how many engines are currently live.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.engines)
}
