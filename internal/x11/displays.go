package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/tabletd/internal/geom"
)

// ListDisplays returns the names of connected RandR outputs, in the
// server's reported order. Display-index mapping values index into
// this list.
func (c *Connection) ListDisplays() ([]string, error) {
	resources, err := c.screenResources()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, output := range resources.Outputs {
		info, err := randr.GetOutputInfo(c.XUtil.Conn(), output, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected {
			continue
		}
		names = append(names, string(info.Name))
	}
	return names, nil
}

// DisplayBounds looks up a connected output's geometry by name. The
// second return value is false when the output is unknown or has no
// active CRTC (connected but switched off).
func (c *Connection) DisplayBounds(name string) (geom.Rect, bool, error) {
	resources, err := c.screenResources()
	if err != nil {
		return geom.Rect{}, false, err
	}

	for _, output := range resources.Outputs {
		info, err := randr.GetOutputInfo(c.XUtil.Conn(), output, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || string(info.Name) != name {
			continue
		}
		if info.Crtc == 0 {
			return geom.Rect{}, false, nil
		}
		crtc, err := randr.GetCrtcInfo(c.XUtil.Conn(), info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			return geom.Rect{}, false, fmt.Errorf("failed to get crtc info for output %s: %w", name, err)
		}
		return geom.FromSize(int(crtc.X), int(crtc.Y), int(crtc.Width), int(crtc.Height)), true, nil
	}
	return geom.Rect{}, false, nil
}

func (c *Connection) screenResources() (*randr.GetScreenResourcesReply, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	return resources, nil
}
