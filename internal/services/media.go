package services

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize 上传图片大小上限
const MaxImageSize = 5 << 20

var ErrNotAnImage = errors.New("upload a valid image")

// MediaStore saves uploaded post images under a root directory.
// Stored names are relative, slash separated paths such as "posts/<uuid>.png".
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore {
	return &MediaStore{root: root}
}

func (m *MediaStore) Root() string { return m.root }

// Check sniffs data and returns its image extension.
func (m *MediaStore) Check(data []byte) (string, error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return "", ErrNotAnImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotAnImage
	}
	return mt.Extension(), nil
}

// Save writes data and returns its stored name.
func (m *MediaStore) Save(data []byte) (string, error) {
	ext, err := m.Check(data)
	if err != nil {
		return "", err
	}
	name := path.Join("posts", uuid.NewString()+ext)
	full := filepath.Join(m.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (m *MediaStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
