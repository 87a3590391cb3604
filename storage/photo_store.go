// file: storage/photo_store.go

package storage

import (
	"fmt"
	"os"
	"path"
	"service-desk/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// PhotoStore keeps uploaded request photos under photos/YYYYMMDD/ of a
// filesystem root. Returned paths are relative and use forward slashes; on
// the filesystem they are rooted at "/" so that http.FileServer lookups hit
// the same entries.
type PhotoStore struct {
	fs  afero.Fs
	now func() time.Time
}

// NewPhotoStoreFs uses fs as the store root. The app passes a BasePathFs over
// the media directory; tests pass an afero.MemMapFs.
func NewPhotoStoreFs(fs afero.Fs) *PhotoStore {
	return &PhotoStore{fs: fs, now: time.Now}
}

// Save writes content under a fresh name with extension ext and returns its path.
func (s *PhotoStore) Save(content []byte, ext string) (string, error) {
	dir := path.Join("photos", s.now().Format("20060102"))
	if err := s.fs.MkdirAll(fsPath(dir), 0o755); err != nil {
		return "", fmt.Errorf("could not create photo directory: %w", err)
	}

	name := path.Join(dir, uuid.NewString()+ext)
	if err := afero.WriteFile(s.fs, fsPath(name), content, 0o644); err != nil {
		return "", fmt.Errorf("could not write photo: %w", err)
	}

	logger.Log.WithField("path", name).WithField("bytes", len(content)).Info("Photo stored")
	return name, nil
}

// Remove deletes a stored photo. Missing files are not an error.
func (s *PhotoStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	if err := s.fs.Remove(fsPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove photo: %w", err)
	}
	return nil
}

func fsPath(name string) string {
	return "/" + strings.TrimPrefix(name, "/")
}

// Fs exposes the store root, e.g. for serving files over HTTP.
func (s *PhotoStore) Fs() afero.Fs {
	return s.fs
}
