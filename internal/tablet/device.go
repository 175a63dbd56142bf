package tablet

import (
	"github.com/1broseidon/tabletd/internal/geom"
)

// Category classifies a tablet input device. Rule option lists target
// one category each.
type Category string

const (
	Pad    Category = "PAD"
	Stylus Category = "STYLUS"
	Eraser Category = "ERASER"
)

// DeviceInfo is one entry of a device enumeration: the identity triple
// the poller diffs on.
type DeviceInfo struct {
	ID       string
	Name     string
	Category Category
}

// Device is a known tablet device. InitialArea is the device's native
// addressable area, captured once via reset-then-read when the device
// is first observed; it is nil when the area could not be read and is
// never mutated afterward. Device identity is the ID alone.
type Device struct {
	ID          string
	Name        string
	Category    Category
	InitialArea *geom.Rect
}
