package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yatube/yatube/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(&config.MediaConfig{Root: t.TempDir(), MaxWidth: 100, MaxHeight: 50})
	require.NoError(t, err)
	return store
}

func TestSavePostImage(t *testing.T) {
	store := newStore(t)

	rel, err := store.SavePostImage(bytes.NewReader(pngBytes(t, 20, 10)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "posts/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	img, err := imaging.Open(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestSavePostImage_Resize(t *testing.T) {
	store := newStore(t)

	rel, err := store.SavePostImage(bytes.NewReader(pngBytes(t, 400, 100)))
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())

	entries, err := os.ReadDir(filepath.Join(store.Root(), PostsDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSavePostImage_NotAnImage(t *testing.T) {
	store := newStore(t)

	_, err := store.SavePostImage(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestRemove(t *testing.T) {
	store := newStore(t)

	rel, err := store.SavePostImage(bytes.NewReader(pngBytes(t, 5, 5)))
	require.NoError(t, err)

	require.NoError(t, store.Remove(rel))
	require.NoError(t, store.Remove(rel))
	require.NoError(t, store.Remove(""))

	_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}
