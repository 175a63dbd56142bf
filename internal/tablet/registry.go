package tablet

import (
	"sort"

	"github.com/1broseidon/tabletd/internal/geom"
)

// AreaCapture reads a device's native area after resetting it. It is
// invoked exactly once per device, at discovery; a nil result means the
// area was unavailable and the device will never be area-mapped.
type AreaCapture func(id string) *geom.Rect

// Registry is the in-memory set of currently known devices, keyed by ID.
type Registry struct {
	devices map[string]*Device
}

func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Sync reconciles the registry against a fresh enumeration. Devices with
// an unknown ID are added (capturing their initial area); devices whose
// (id, name, category) triple no longer appears are dropped. Returns
// whether the registry changed, along with the added and removed devices
// for logging. Syncing twice with the same enumeration is a no-op the
// second time.
func (r *Registry) Sync(current []DeviceInfo, capture AreaCapture) (changed bool, added, removed []*Device) {
	seen := make(map[DeviceInfo]bool, len(current))
	for _, info := range current {
		seen[info] = true
		if _, ok := r.devices[info.ID]; ok {
			continue
		}
		dev := &Device{
			ID:       info.ID,
			Name:     info.Name,
			Category: info.Category,
		}
		if capture != nil {
			dev.InitialArea = capture(info.ID)
		}
		r.devices[info.ID] = dev
		added = append(added, dev)
		changed = true
	}

	for id, dev := range r.devices {
		triple := DeviceInfo{ID: dev.ID, Name: dev.Name, Category: dev.Category}
		if !seen[triple] {
			delete(r.devices, id)
			removed = append(removed, dev)
			changed = true
		}
	}

	return changed, added, removed
}

// Devices returns the known devices ordered by name then ID, so that
// rule application is deterministic across ticks.
func (r *Registry) Devices() []*Device {
	out := make([]*Device, 0, len(r.devices))
	for _, dev := range r.devices {
		out = append(out, dev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of known devices.
func (r *Registry) Len() int {
	return len(r.devices)
}
