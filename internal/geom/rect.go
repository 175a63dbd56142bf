package geom

import (
	"fmt"
	"regexp"
	"strconv"
)

// Rect is an axis-aligned rectangle stored as min/max ordinates.
// Width and height are always non-negative after construction.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// FromSize builds a Rect from an origin and dimensions.
func FromSize(x, y, width, height int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

func (r Rect) Width() int {
	return r.MaxX - r.MinX
}

func (r Rect) Height() int {
	return r.MaxY - r.MinY
}

// Aspect returns width/height. Callers must guard against zero height.
func (r Rect) Aspect() float64 {
	return float64(r.Width()) / float64(r.Height())
}

// GeometryString renders the rectangle in X geometry form, "WxH+X+Y".
// X and Y may be negative for rectangles left of or above the origin.
func (r Rect) GeometryString() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width(), r.Height(), r.MinX, r.MinY)
}

func (r Rect) String() string {
	return r.GeometryString()
}

var geometryPattern = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)`)

// ParseGeometry parses an X geometry string ("WxH+X+Y") as produced by
// GeometryString and by xrandr output lines.
func ParseGeometry(s string) (Rect, error) {
	m := geometryPattern.FindStringSubmatch(s)
	if m == nil {
		return Rect{}, fmt.Errorf("invalid geometry string %q", s)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	return FromSize(x, y, w, h), nil
}
