package tablet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/1broseidon/tabletd/internal/geom"
)

func fakeRunner(t *testing.T, responses map[string]string) (*XSetWacom, *[]string) {
	t.Helper()
	var calls []string
	x := &XSetWacom{run: func(args ...string) (string, error) {
		key := strings.Join(args, " ")
		calls = append(calls, key)
		out, ok := responses[key]
		if !ok {
			return "", fmt.Errorf("unexpected xsetwacom invocation: %s", key)
		}
		return out, nil
	}}
	return x, &calls
}

const listOutput = `Wacom Intuos Pro M Pen stylus   	id: 21	type: STYLUS
Wacom Intuos Pro M Pen eraser   	id: 22	type: ERASER
Wacom Intuos Pro M Pad pad      	id: 23	type: PAD
Wacom Intuos Pro M Finger touch 	id: 24	type: TOUCH
`

func TestListDevices(t *testing.T) {
	x, _ := fakeRunner(t, map[string]string{
		"--list devices": listOutput,
	})

	devices, err := x.ListDevices()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The TOUCH device is not a recognized category and is skipped.
	if len(devices) != 3 {
		t.Fatalf("expected 3 devices, got %d: %v", len(devices), devices)
	}

	want := []DeviceInfo{
		{ID: "21", Name: "Wacom Intuos Pro M Pen stylus", Category: Stylus},
		{ID: "22", Name: "Wacom Intuos Pro M Pen eraser", Category: Eraser},
		{ID: "23", Name: "Wacom Intuos Pro M Pad pad", Category: Pad},
	}
	for i, w := range want {
		if devices[i] != w {
			t.Fatalf("device %d: expected %+v, got %+v", i, w, devices[i])
		}
	}
}

func TestResetAndGetArea(t *testing.T) {
	x, calls := fakeRunner(t, map[string]string{
		"--set 21 resetarea": "",
		"--get 21 Area":      "0 0 44704 27940\n",
	})

	area, err := x.ResetAndGetArea("21")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geom.Rect{MinX: 0, MinY: 0, MaxX: 44704, MaxY: 27940}
	if area != want {
		t.Fatalf("expected %+v, got %+v", want, area)
	}
	if (*calls)[0] != "--set 21 resetarea" {
		t.Fatalf("expected reset before read, got calls %v", *calls)
	}
}

func TestResetAndGetAreaUnparseable(t *testing.T) {
	x, _ := fakeRunner(t, map[string]string{
		"--set 21 resetarea": "",
		"--get 21 Area":      "Property 'Area' does not exist on device.\n",
	})
	if _, err := x.ResetAndGetArea("21"); err == nil {
		t.Fatalf("expected error for unparseable area output")
	}
}

func TestSetAreaAndOutputArea(t *testing.T) {
	x, calls := fakeRunner(t, map[string]string{
		"--set 21 Area 0 718 1000 1281":      "",
		"--set 21 MapToOutput 1920x1080+0+0": "",
		"--set 23 Button 2 pan":              "",
	})

	if err := x.SetArea("21", geom.Rect{MinX: 0, MinY: 718, MaxX: 1000, MaxY: 1281}); err != nil {
		t.Fatalf("SetArea: %v", err)
	}
	if err := x.SetOutputArea("21", geom.FromSize(0, 0, 1920, 1080)); err != nil {
		t.Fatalf("SetOutputArea: %v", err)
	}
	if err := x.SetRawOption("23", "Button 2 pan"); err != nil {
		t.Fatalf("SetRawOption: %v", err)
	}
	if len(*calls) != 3 {
		t.Fatalf("expected 3 invocations, got %v", *calls)
	}
}
