package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tabletd/internal/geom"
)

// Window identifiers cross the collaborator boundary as opaque strings
// in the X convention ("0x3c00007"), which is also the form users put
// in window-id matchers.

func formatWindowID(w xproto.Window) string {
	return fmt.Sprintf("0x%x", uint32(w))
}

func parseWindowID(id string) (xproto.Window, error) {
	s := strings.TrimPrefix(strings.ToLower(id), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", id, err)
	}
	return xproto.Window(v), nil
}

// ActiveWindow returns the focused window's identifier, or an empty
// string when no window is focused.
func (c *Connection) ActiveWindow() (string, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return "", fmt.Errorf("failed to get active window: %w", err)
	}
	if win == 0 {
		return "", nil
	}
	return formatWindowID(win), nil
}

// WindowTitle returns a window's title, preferring _NET_WM_NAME and
// falling back to the ICCCM WM_NAME property.
func (c *Connection) WindowTitle(id string) (string, error) {
	win, err := parseWindowID(id)
	if err != nil {
		return "", err
	}

	title, err := ewmh.WmNameGet(c.XUtil, win)
	if err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}

	title, err = icccm.WmNameGet(c.XUtil, win)
	if err != nil {
		return "", fmt.Errorf("failed to get title of window %s: %w", id, err)
	}
	return strings.TrimSpace(title), nil
}

// WindowClasses returns a window's WM_CLASS strings (instance and class).
func (c *Connection) WindowClasses(id string) ([]string, error) {
	win, err := parseWindowID(id)
	if err != nil {
		return nil, err
	}

	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return nil, fmt.Errorf("failed to get class of window %s: %w", id, err)
	}
	return []string{wmClass.Instance, wmClass.Class}, nil
}

// WindowBounds returns a window's root-relative geometry. When
// includeFrame is set, the top edge is raised by the window-manager
// frame's top extent so the mapped area covers the decorated window.
func (c *Connection) WindowBounds(id string, includeFrame bool) (geom.Rect, error) {
	win, err := parseWindowID(id)
	if err != nil {
		return geom.Rect{}, err
	}

	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("failed to get geometry of window %s: %w", id, err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("failed to translate coordinates of window %s: %w", id, err)
	}

	bounds := geom.FromSize(int(translate.DstX), int(translate.DstY), int(g.Width), int(g.Height))

	if includeFrame {
		if extents, err := ewmh.FrameExtentsGet(c.XUtil, win); err == nil {
			bounds.MinY -= int(extents.Top)
		}
		// Windows without _NET_FRAME_EXTENTS keep their bare bounds.
	}

	return bounds, nil
}
