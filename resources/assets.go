// Package resources renders the tray and window icons.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"

	"focustimer/internal/core/model"
)

const iconSize = 64

var iconCache sync.Map

// PhaseIcon returns a filled circle in the accent color of phase.
// Paused phases get a hollow ring.
func PhaseIcon(phase model.Phase, running bool) (fyne.Resource, error) {
	name := fmt.Sprintf("%s-%t.png", phase, running)
	if cached, ok := iconCache.Load(name); ok {
		return cached.(fyne.Resource), nil
	}

	accent, err := ParseHexColor(phase.Color())
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}
	data, err := renderCircle(accent, !running)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", name, err)
	}

	resource := fyne.NewStaticResource(name, data)
	iconCache.Store(name, resource)
	return resource, nil
}

// MustPhaseIcon returns a phase icon or panics on error.
func MustPhaseIcon(phase model.Phase, running bool) fyne.Resource {
	resource, err := PhaseIcon(phase, running)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the running work icon.
func AppIcon() fyne.Resource {
	return MustPhaseIcon(model.PhaseWork, true)
}

// ParseHexColor converts "#rrggbb" into an opaque color.
func ParseHexColor(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want #rrggbb", value)
	}
	raw, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", value, err)
	}
	return color.NRGBA{R: uint8(raw >> 16), G: uint8(raw >> 8), B: uint8(raw), A: 255}, nil
}

func renderCircle(fill color.NRGBA, hollow bool) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	center := float64(iconSize-1) / 2
	outer := float64(iconSize)/2 - 2
	inner := outer - 10

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			distance := dx*dx + dy*dy
			if distance > outer*outer {
				continue
			}
			if hollow && distance < inner*inner {
				continue
			}
			img.SetNRGBA(x, y, fill)
		}
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
