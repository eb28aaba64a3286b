package thumbnail

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestRenderScalesDownWideImages(t *testing.T) {
	data, err := Render(pngBytes(t, 640, 480), 320)
	require.NoError(t, err)

	thumb, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, thumb.Bounds().Dx())
	assert.Equal(t, 240, thumb.Bounds().Dy())
}

func TestRenderKeepsNarrowImages(t *testing.T) {
	data, err := Render(pngBytes(t, 200, 100), 320)
	require.NoError(t, err)

	thumb, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, thumb.Bounds().Dx())
	assert.Equal(t, 100, thumb.Bounds().Dy())
}

func TestRenderRejectsGarbage(t *testing.T) {
	_, err := Render([]byte("not an image"), 320)
	assert.Error(t, err)
}
