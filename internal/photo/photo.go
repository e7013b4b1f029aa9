// Package photo loads student photos from disk and renders them as
// terminal thumbnails.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxEncodedLen bounds the base64 length that is decoded for rendering.
// Larger payloads are shown as a label.
const MaxEncodedLen = 100000

var (
	// ErrNotImage is returned when a file's content is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge is returned when a file exceeds the size limit.
	ErrTooLarge = errors.New("file is too large")
)

// Image is a photo read from disk and ready to send.
type Image struct {
	Path   string
	MIME   string
	Size   int64
	Base64 string
}

// Load reads the file at path, checks that it is an image no larger than
// maxBytes, and base64-encodes it. maxBytes <= 0 disables the size check.
func Load(path string, maxBytes int64) (Image, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Image{}, errors.New("no photo path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, fmt.Errorf("stat photo: %w", err)
	}
	if info.IsDir() {
		return Image{}, fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Image{}, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read photo: %w", err)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%s (%s): %w", path, mt.String(), ErrNotImage)
	}

	return Image{
		Path:   path,
		MIME:   mt.String(),
		Size:   int64(len(data)),
		Base64: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// StripDataURL removes a "data:<mime>;base64," prefix if present.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Decode decodes a base64 payload (with or without a data URL prefix)
// into an image.
func Decode(encoded string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(StripDataURL(strings.TrimSpace(encoded)))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Render draws the encoded image in cols x lines terminal cells. Each cell
// is an upper half block carrying two vertically stacked pixels.
func Render(encoded string, cols, lines int) (string, error) {
	if cols <= 0 || lines <= 0 {
		return "", nil
	}
	if len(encoded) > MaxEncodedLen {
		return "", fmt.Errorf("encoded photo is %d bytes: %w", len(encoded), ErrTooLarge)
	}
	src, err := Decode(encoded)
	if err != nil {
		return "", err
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, lines*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < lines; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			cell := lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom))
			b.WriteString(cell.Render("▀"))
		}
	}
	return b.String(), nil
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
