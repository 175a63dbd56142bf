package tablet

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/1broseidon/tabletd/internal/geom"
)

// Controller is the narrow command surface the daemon drives tablet
// devices through.
type Controller interface {
	// ListDevices enumerates the currently connected tablet devices.
	ListDevices() ([]DeviceInfo, error)
	// ResetAndGetArea resets a device's active area to its native
	// bounds and reads the result back.
	ResetAndGetArea(id string) (geom.Rect, error)
	// SetArea sets the device's active area.
	SetArea(id string, area geom.Rect) error
	// SetOutputArea maps the device onto a screen-space rectangle.
	SetOutputArea(id string, area geom.Rect) error
	// SetRawOption applies one raw option string verbatim.
	SetRawOption(id, opt string) error
}

// XSetWacom drives devices through the xsetwacom command-line utility.
type XSetWacom struct {
	run func(args ...string) (string, error)
}

var _ Controller = (*XSetWacom)(nil)

func NewXSetWacom() *XSetWacom {
	return &XSetWacom{run: runXSetWacom}
}

func runXSetWacom(args ...string) (string, error) {
	out, err := exec.Command("xsetwacom", args...).Output()
	if err != nil {
		return "", fmt.Errorf("xsetwacom %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// deviceLinePattern matches xsetwacom --list device lines such as
// "Wacom Intuos Pro M Pen stylus   id: 21  type: STYLUS". Devices of
// other types (CURSOR, TOUCH) are not listed by the daemon.
var deviceLinePattern = regexp.MustCompile(`^(.*\S)\s+id:\s+(\d+)\s+type:\s+(PAD|STYLUS|ERASER)\s*$`)

var areaPattern = regexp.MustCompile(`^(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)

func (x *XSetWacom) ListDevices() ([]DeviceInfo, error) {
	out, err := x.run("--list", "devices")
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, line := range strings.Split(out, "\n") {
		m := deviceLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		devices = append(devices, DeviceInfo{
			ID:       m[2],
			Name:     m[1],
			Category: Category(m[3]),
		})
	}
	return devices, nil
}

func (x *XSetWacom) ResetAndGetArea(id string) (geom.Rect, error) {
	// Reset failures are ignored: some devices reject resetarea but
	// still report a usable Area.
	x.run("--set", id, "resetarea")

	out, err := x.run("--get", id, "Area")
	if err != nil {
		return geom.Rect{}, err
	}
	m := areaPattern.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return geom.Rect{}, fmt.Errorf("device %s reported unparseable area %q", id, strings.TrimSpace(out))
	}
	minX, _ := strconv.Atoi(m[1])
	minY, _ := strconv.Atoi(m[2])
	maxX, _ := strconv.Atoi(m[3])
	maxY, _ := strconv.Atoi(m[4])
	return geom.Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, nil
}

func (x *XSetWacom) SetArea(id string, area geom.Rect) error {
	_, err := x.run("--set", id, "Area",
		strconv.Itoa(area.MinX), strconv.Itoa(area.MinY),
		strconv.Itoa(area.MaxX), strconv.Itoa(area.MaxY))
	return err
}

func (x *XSetWacom) SetOutputArea(id string, area geom.Rect) error {
	_, err := x.run("--set", id, "MapToOutput", area.GeometryString())
	return err
}

func (x *XSetWacom) SetRawOption(id, opt string) error {
	args := append([]string{"--set", id}, strings.Fields(opt)...)
	_, err := x.run(args...)
	return err
}
