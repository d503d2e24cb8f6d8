package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestAssetsResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pexels-photo-1.png"), color.White)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	a, err := NewAssets(dir)
	require.NoError(t, err)

	p, err := a.Resolve("https://images.pexels.com/photos/1/pexels-photo-1.png?w=100")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pexels-photo-1.png"), p)

	p, err = a.Resolve("some/dir/pexels-photo-1.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pexels-photo-1.png"), p)

	for _, ref := range []string{"missing.png", "notes.txt", "", "https://example.com/"} {
		_, err = a.Resolve(ref)
		assert.ErrorIs(t, err, ErrAssetNotFound, ref)
	}

	list, err := a.List()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "pexels-photo-1.png")}, list)
}

func TestAssetsImageCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, color.White)

	a, err := NewAssets(dir)
	require.NoError(t, err)

	img, err := a.Image("a.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	require.NoError(t, os.Remove(path))
	again, err := a.Image("a.png")
	require.NoError(t, err)
	assert.Same(t, img.(*image.RGBA), again.(*image.RGBA))
}

func TestNewAssetsRejectsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err := NewAssets(path)
	assert.Error(t, err)

	_, err = NewAssets(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
