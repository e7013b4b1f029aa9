package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoad_PNG(t *testing.T) {
	data := pngBytes(t, 4, 4, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "face.png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	img, err := Load(path, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, int64(len(data)), img.Size)

	decoded, err := base64.StdEncoding.DecodeString(img.Base64)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("just some text\n"), 0o644))
	bigPath := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(bigPath, pngBytes(t, 32, 32, color.White), 0o644))

	tests := []struct {
		name   string
		path   string
		max    int64
		target error
	}{
		{name: "not an image", path: textPath, max: 1 << 20, target: ErrNotImage},
		{name: "directory", path: dir, max: 1 << 20, target: ErrNotImage},
		{name: "too large", path: bigPath, max: 10, target: ErrTooLarge},
		{name: "missing", path: filepath.Join(dir, "nope.png"), max: 1 << 20, target: os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, tt.max)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := Load("   ", 0)
	assert.Error(t, err)
}

func TestStripDataURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data:image/png;base64,QUJD", "QUJD"},
		{"QUJD", "QUJD"},
		{"data:broken", "data:broken"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripDataURL(tt.in), tt.in)
	}
}

func TestRender(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngBytes(t, 8, 8, color.RGBA{B: 255, A: 255}))

	out, err := Render(encoded, 4, 2)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 4, strings.Count(line, "▀"))
	}

	out, err = Render("data:image/png;base64,"+encoded, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "▀"))
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("!!!not base64", 4, 1)
	assert.Error(t, err)

	_, err = Render(base64.StdEncoding.EncodeToString([]byte("plain text")), 4, 1)
	assert.Error(t, err)

	_, err = Render(strings.Repeat("A", MaxEncodedLen+4), 4, 1)
	assert.ErrorIs(t, err, ErrTooLarge)

	out, err := Render("QUJD", 0, 1)
	assert.NoError(t, err)
	assert.Empty(t, out)
}
