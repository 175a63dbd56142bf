package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MappingKind selects what a mapping action targets.
type MappingKind int

const (
	// MapActiveWindow maps the tablet onto the focused window's bounds.
	MapActiveWindow MappingKind = iota
	// MapDisplayIndex maps onto the Nth connected display.
	MapDisplayIndex
	// MapDisplayID maps onto a display named by its output identifier.
	MapDisplayID
)

// Mapping is the decoded form of a rule's "mapping" value, which on disk
// is either the literal "window", a non-negative display index, or a
// display identifier string.
type Mapping struct {
	Kind    MappingKind
	Index   int
	Display string
}

func (m Mapping) String() string {
	switch m.Kind {
	case MapActiveWindow:
		return "window"
	case MapDisplayIndex:
		return strconv.Itoa(m.Index)
	default:
		return m.Display
	}
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

func (m *Mapping) decode(raw any) error {
	switch v := raw.(type) {
	case string:
		switch {
		case v == "window":
			*m = Mapping{Kind: MapActiveWindow}
		case digitsOnly.MatchString(v):
			// Numeric strings are display indexes, same as bare integers.
			idx, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("mapping index %q: %w", v, err)
			}
			*m = Mapping{Kind: MapDisplayIndex, Index: idx}
		default:
			*m = Mapping{Kind: MapDisplayID, Display: v}
		}
		return nil
	case int:
		if v < 0 {
			return fmt.Errorf("mapping display index must not be negative, got %d", v)
		}
		*m = Mapping{Kind: MapDisplayIndex, Index: v}
		return nil
	case float64:
		idx := int(v)
		if float64(idx) != v {
			return fmt.Errorf("mapping display index must be an integer, got %v", v)
		}
		if idx < 0 {
			return fmt.Errorf("mapping display index must not be negative, got %d", idx)
		}
		*m = Mapping{Kind: MapDisplayIndex, Index: idx}
		return nil
	default:
		return fmt.Errorf("mapping must be a string or integer, got %T", raw)
	}
}

func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return m.decode(raw)
}

func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return m.decode(raw)
}
