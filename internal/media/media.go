// Package media stores images attached to posts.
package media

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/yatube/yatube/internal/config"
)

// PostsDir is the subdirectory of the media root holding post images.
const PostsDir = "posts"

// ErrNotAnImage is returned when an upload can't be decoded as an image.
var ErrNotAnImage = errors.New("upload a valid image")

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"bmp":  ".bmp",
	"tiff": ".tif",
}

// Store saves uploaded images below a root directory, scaling them down
// to fit the configured bounds.
type Store struct {
	root      string
	maxWidth  int
	maxHeight int
	quality   int
}

// New creates a Store and makes sure its directories exist.
func New(cfg *config.MediaConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Root, PostsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{
		root:      cfg.Root,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		quality:   85,
	}, nil
}

// Root returns the directory served under /media/.
func (s *Store) Root() string {
	return s.root
}

// SavePostImage decodes r, scales the image if needed and stores it.
// It returns the stored path relative to the media root, using forward slashes.
func (s *Store) SavePostImage(r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", ErrNotAnImage
	}
	ext, ok := extensions[format]
	if !ok {
		return "", ErrNotAnImage
	}

	bounds := img.Bounds()
	if bounds.Dx() > s.maxWidth || bounds.Dy() > s.maxHeight {
		img = imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)
		log.Debug("resized post image", "from", bounds.Size(), "to", img.Bounds().Size())
	}

	name := uuid.NewString() + ext
	finalPath := filepath.Join(s.root, PostsDir, name)
	tempPath := filepath.Join(s.root, PostsDir, "tmp_"+name)
	defer os.Remove(tempPath) //nolint:errcheck

	if err := imaging.Save(img, tempPath, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to move image: %w", err)
	}

	return path.Join(PostsDir, name), nil
}

// Remove deletes a stored file. Missing files are ignored.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
