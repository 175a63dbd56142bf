package geom

import "math"

// AspectTolerance is the largest deviation between a fitted rectangle's
// aspect ratio and the output's before the result is considered degraded.
// Clamping can legitimately push past it when the device and output
// aspect ratios are far apart.
const AspectTolerance = 0.01

// Fit computes the largest sub-rectangle of device whose aspect ratio
// matches output's, centered within device and clamped to its bounds.
// Pure function: no side effects, no logging.
//
// If either rectangle has zero height the aspect ratios are undefined
// and the device rectangle is returned unchanged.
func Fit(output, device Rect) Rect {
	if device.Height() == 0 || output.Height() == 0 {
		return device
	}

	outAspect := output.Aspect()
	devAspect := device.Aspect()
	devW := float64(device.Width())
	devH := float64(device.Height())

	var w, h float64
	if outAspect >= devAspect {
		// Device is taller relative to the output: width is constrained.
		w = devW * math.Min(1.0, outAspect/devAspect)
		h = w / outAspect
	} else {
		// Device is wider relative to the output: height is constrained.
		h = devH * math.Min(1.0, devAspect/outAspect)
		w = h * outAspect
	}

	wi := int(math.Ceil(w))
	if wi > device.Width() {
		wi = device.Width()
	}
	hi := int(math.Ceil(h))
	if hi > device.Height() {
		hi = device.Height()
	}

	dx := device.MinX + (device.Width()-wi)/2
	dy := device.MinY + (device.Height()-hi)/2

	return Rect{
		MinX: clamp(dx, device.MinX, device.MaxX),
		MinY: clamp(dy, device.MinY, device.MaxY),
		MaxX: clamp(dx+wi, device.MinX, device.MaxX),
		MaxY: clamp(dy+hi, device.MinY, device.MaxY),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
