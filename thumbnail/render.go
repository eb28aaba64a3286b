// Package thumbnail renders bounded-width JPEG previews of uploaded images
// and keeps the rendered bytes in a small TTL cache.
package thumbnail

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png" // register the png decoder for image.Decode

	"github.com/nfnt/resize"
)

// MaxWidth Default bound for rendered thumbnails, in pixels.
const MaxWidth = 320

const jpegQuality = 80

// Render Decode an uploaded image (jpeg or png), scale it down so its width
// does not exceed maxWidth while keeping the aspect ratio, and return the
// JPEG-encoded result. Images already narrower than maxWidth are re-encoded
// without scaling.
func Render(data []byte, maxWidth uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("cannot decode image")
	}

	if uint(img.Bounds().Dx()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.New("jpeg encode error")
	}
	return buf.Bytes(), nil
}
