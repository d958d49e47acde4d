package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension es el ancho/alto máximo de una foto guardada.
	MaxDimension = 1280

	JPEGQuality = 85

	// MaxUploadBytes limita lo que se lee del request.
	MaxUploadBytes = 8 << 20
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image too large")
	ErrEmpty             = errors.New("empty image")
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Photo es la foto ya normalizada (siempre JPEG).
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process valida el formato mirando los bytes (no el header del cliente),
// achica si excede MaxDimension y re-encodea a JPEG.
func Process(r io.Reader) (Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Photo{}, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) == 0 {
		return Photo{}, ErrEmpty
	}
	if len(data) > MaxUploadBytes {
		return Photo{}, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return Photo{}, fmt.Errorf("%w: %s (JPEG, PNG, GIF or WebP)", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Photo{}, fmt.Errorf("encoding jpeg: %w", err)
	}

	b := img.Bounds()
	return Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscale mantiene el aspect ratio; si ya entra en maxDim devuelve la misma imagen.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = h * maxDim / w
	} else {
		newW = w * maxDim / h
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
