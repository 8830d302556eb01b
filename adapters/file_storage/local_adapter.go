package file_storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"profile-hub/internal/application/service"
	"profile-hub/internal/config"
)

// PictureDir is the subdirectory of the static root that uploaded profile
// pictures are stored in and served from.
const PictureDir = "profile-pictures"

type localPictureStore struct {
	root string
}

func NewLocalPictureStore(cfg config.Config) (service.PictureStore, error) {
	if cfg.Storage.StaticRoot == "" {
		return nil, fmt.Errorf("storage static_root is not configured")
	}
	return &localPictureStore{root: cfg.Storage.StaticRoot}, nil
}

// Save writes the content under a uniquified name. The directory create is
// idempotent; concurrent duplicate creates are harmless because file names
// never collide.
func (s *localPictureStore) Save(ctx context.Context, file io.Reader, fileName string) (string, string, error) {
	dir := filepath.Join(s.root, PictureDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("cannot create upload directory: %w", err)
	}

	storedName := fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(fileName))

	dst, err := os.Create(filepath.Join(dir, storedName))
	if err != nil {
		return "", "", fmt.Errorf("cannot create picture file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", "", fmt.Errorf("cannot write picture file: %w", err)
	}

	return storedName, "/" + path.Join(PictureDir, storedName), nil
}

func (s *localPictureStore) Remove(ctx context.Context, storedName string) error {
	// Base strips any path the caller derived the name from.
	err := os.Remove(filepath.Join(s.root, PictureDir, filepath.Base(storedName)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot remove picture file: %w", err)
	}
	return nil
}
