package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareURLTrimsTrailingSlash(t *testing.T) {
	g, err := NewGenerator("https://fyyur.example.com/", 0)
	require.NoError(t, err)

	assert.Equal(t, "https://fyyur.example.com/venues/3", g.ShareURL("venues", 3))
}

func TestPNGIsDecodableImageOfRequestedSize(t *testing.T) {
	g, err := NewGenerator("https://fyyur.example.com", 128)
	require.NoError(t, err)

	data, err := g.PNG("artists", 4)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestDifferentEntitiesGiveDifferentCodes(t *testing.T) {
	g, err := NewGenerator("https://fyyur.example.com", 0)
	require.NoError(t, err)

	a, err := g.PNG("venues", 1)
	require.NoError(t, err)
	b, err := g.PNG("venues", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewGeneratorRejectsRelativeBase(t *testing.T) {
	_, err := NewGenerator("fyyur.local", 0)
	assert.Error(t, err)
}
