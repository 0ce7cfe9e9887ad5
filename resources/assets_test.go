package resources

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/core/model"
)

func TestParseHexColor(t *testing.T) {
	parsed, err := ParseHexColor("#ec4899")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xec, G: 0x48, B: 0x99, A: 255}, parsed)

	_, err = ParseHexColor("#fff")
	assert.Error(t, err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}

func TestPhaseIconIsCachedPNG(t *testing.T) {
	first, err := PhaseIcon(model.PhaseShortBreak, true)
	require.NoError(t, err)
	second, err := PhaseIcon(model.PhaseShortBreak, true)
	require.NoError(t, err)
	assert.Same(t, first, second)

	img, err := png.Decode(bytes.NewReader(first.Content()))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())

	r, g, b, _ := img.At(iconSize/2, iconSize/2).RGBA()
	assert.Equal(t, uint32(0x10), r>>8)
	assert.Equal(t, uint32(0xb9), g>>8)
	assert.Equal(t, uint32(0x81), b>>8)
}

func TestPausedIconIsHollow(t *testing.T) {
	icon := MustPhaseIcon(model.PhaseLongBreak, false)

	img, err := png.Decode(bytes.NewReader(icon.Content()))
	require.NoError(t, err)
	_, _, _, centerAlpha := img.At(iconSize/2, iconSize/2).RGBA()
	_, _, _, ringAlpha := img.At(iconSize/2, 4).RGBA()
	assert.Zero(t, centerAlpha)
	assert.NotZero(t, ringAlpha)
}
