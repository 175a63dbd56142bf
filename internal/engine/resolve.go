package engine

import (
	"github.com/1broseidon/tabletd/internal/config"
	"github.com/1broseidon/tabletd/internal/geom"
)

// resolveOutput turns a rule's mapping value into a target output
// rectangle. The second return value is false when no output area can
// be resolved: no window focused for an ActiveWindow mapping, a
// display index out of range, or an unknown display name. Unresolved
// mappings are reported and the mapping step is skipped.
func (e *Engine) resolveOutput(m config.Mapping, snap Snapshot) (geom.Rect, bool) {
	switch m.Kind {
	case config.MapActiveWindow:
		if !snap.Focused() {
			return geom.Rect{}, false
		}
		bounds, err := e.windows.WindowBounds(snap.WindowID, true)
		if err != nil {
			e.logger.Error("failed to get bounds of focused window",
				"window", snap.WindowID, "error", err)
			return geom.Rect{}, false
		}
		return bounds, true

	case config.MapDisplayIndex:
		names, err := e.windows.ListDisplays()
		if err != nil {
			e.logger.Error("failed to list connected displays", "error", err)
			return geom.Rect{}, false
		}
		if m.Index >= len(names) {
			e.logger.Error("no connected display at index",
				"index", m.Index, "connected", len(names))
			return geom.Rect{}, false
		}
		return e.displayBounds(names[m.Index])

	default:
		return e.displayBounds(m.Display)
	}
}

func (e *Engine) displayBounds(name string) (geom.Rect, bool) {
	e.logger.Debug("using display output area", "display", name)
	bounds, ok, err := e.windows.DisplayBounds(name)
	if err != nil {
		e.logger.Error("failed to get display bounds", "display", name, "error", err)
		return geom.Rect{}, false
	}
	if !ok {
		e.logger.Error("display not found", "display", name)
		return geom.Rect{}, false
	}
	return bounds, true
}
