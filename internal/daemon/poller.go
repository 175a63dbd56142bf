package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/tabletd/internal/engine"
	"github.com/1broseidon/tabletd/internal/geom"
	"github.com/1broseidon/tabletd/internal/tablet"
)

// WindowSource supplies the active-window facts the poller snapshots
// each tick.
type WindowSource interface {
	ActiveWindow() (string, error)
	WindowBounds(id string, includeFrame bool) (geom.Rect, error)
}

// Applier runs one rule-application pass. Satisfied by *engine.Engine.
type Applier interface {
	Apply(devices []*tablet.Device, snap engine.Snapshot)
}

// PollerConfig holds configuration for the poller.
type PollerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Poller is the top-level control loop: each tick it refreshes the
// device registry and the window snapshot, and invokes the engine once
// when either changed.
type Poller struct {
	interval time.Duration
	logger   *slog.Logger

	tablet   tablet.Controller
	windows  WindowSource
	applier  Applier
	registry *tablet.Registry
	snapshot engine.Snapshot
}

// New creates a poller. A non-positive interval falls back to one
// second.
func New(cfg PollerConfig, ctl tablet.Controller, windows WindowSource, applier Applier) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		logger:   cfg.Logger,
		tablet:   ctl,
		windows:  windows,
		applier:  applier,
		registry: tablet.NewRegistry(),
	}
}

// Run starts the poll loop. The first tick happens immediately; the
// loop then re-evaluates at the configured interval until the context
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick performs one poll cycle: refresh devices, refresh the window
// snapshot, and apply rules once if either changed.
func (p *Poller) tick() {
	changed := p.syncDevices()
	if p.syncWindow() {
		changed = true
	}
	if changed {
		p.applier.Apply(p.registry.Devices(), p.snapshot)
	}
}

func (p *Poller) syncDevices() bool {
	current, err := p.tablet.ListDevices()
	if err != nil {
		// Keep the retained registry; enumeration is retried next tick.
		p.logger.Error("device enumeration failed", "error", err)
		return false
	}

	changed, added, removed := p.registry.Sync(current, p.captureArea)
	for _, dev := range added {
		p.logger.Debug("new device", "name", dev.Name, "category", dev.Category)
	}
	for _, dev := range removed {
		p.logger.Debug("removed device", "name", dev.Name, "category", dev.Category)
	}
	if changed {
		p.logger.Debug("devices changed")
	}
	return changed
}

func (p *Poller) captureArea(id string) *geom.Rect {
	area, err := p.tablet.ResetAndGetArea(id)
	if err != nil {
		p.logger.Error("failed to capture initial area", "device", id, "error", err)
		return nil
	}
	return &area
}

func (p *Poller) syncWindow() bool {
	id, err := p.windows.ActiveWindow()
	if err != nil {
		// A failed window query is treated as "no active window".
		p.logger.Debug("active window query failed", "error", err)
		id = ""
	}

	var bounds *geom.Rect
	if id != "" {
		b, err := p.windows.WindowBounds(id, false)
		if err != nil {
			p.logger.Debug("window bounds query failed", "window", id, "error", err)
		} else {
			bounds = &b
		}
	}

	next := engine.Snapshot{WindowID: id, Bounds: bounds}
	if !snapshotsEqual(p.snapshot, next) {
		p.snapshot = next
		p.logger.Debug("window changed", "window", id)
		return true
	}
	return false
}

func snapshotsEqual(a, b engine.Snapshot) bool {
	if a.WindowID != b.WindowID {
		return false
	}
	if (a.Bounds == nil) != (b.Bounds == nil) {
		return false
	}
	return a.Bounds == nil || *a.Bounds == *b.Bounds
}
