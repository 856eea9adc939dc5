package form

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const previewSize = 200

// SetImage stores a picked picture and computes its preview.
// A file that does not decode as an image is kept for submission without a preview.
func (f *Form) SetImage(filename string, data []byte) {
	if len(data) == 0 {
		return
	}

	f.Image = &Image{
		Filename:    filepath.Base(filename),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}

	preview, err := Preview(data)
	if err != nil {
		f.Preview = ""
		return
	}
	f.Preview = preview
}

// Preview decodes an image and returns it as a PNG data URL no larger than 200px on either side.
func Preview(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	if width > previewSize || height > previewSize {
		if width >= height {
			height = max(1, height*previewSize/width)
			width = previewSize
		} else {
			width = max(1, width*previewSize/height)
			height = previewSize
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)

	var out bytes.Buffer
	if err = png.Encode(&out, scaled); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(out.Bytes()), nil
}
