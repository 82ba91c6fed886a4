// Package media stores screenshot image files on disk. Files live under
// one directory per run, named by a fresh UUID so uploads never collide
// or traverse outside the root.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrBadExtension = errors.New("file_type_not_allowed")
	ErrFileTooLarge = errors.New("file_too_large")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

type FileStore struct {
	root     string
	maxBytes int64
}

func NewFileStore(root string, maxUploadMB int) (*FileStore, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{root: root, maxBytes: int64(maxUploadMB) * 1024 * 1024}, nil
}

// Root returns the directory static file serving should mount.
func (fs *FileStore) Root() string {
	return fs.root
}

func (fs *FileStore) MaxBytes() int64 {
	return fs.maxBytes
}

type SavedFile struct {
	Filename string
	Size     int64
	Width    *int
	Height   *int
}

// Save validates extension and size, writes the content under the run's
// directory and probes the image dimensions. The returned Filename is
// relative to the store root.
func (fs *FileStore) Save(runID int64, originalName string, content []byte) (*SavedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".png"
	}
	if !allowedExtensions[ext] {
		return nil, ErrBadExtension
	}
	if int64(len(content)) > fs.maxBytes {
		return nil, ErrFileTooLarge
	}

	runDir := filepath.Join(fs.root, fmt.Sprintf("%d", runID))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, err
	}
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	rel := filepath.Join(fmt.Sprintf("%d", runID), name)
	if err := os.WriteFile(filepath.Join(fs.root, rel), content, 0o644); err != nil {
		return nil, err
	}

	sf := &SavedFile{Filename: rel, Size: int64(len(content))}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		w, h := cfg.Width, cfg.Height
		sf.Width = &w
		sf.Height = &h
	}
	return sf, nil
}

// Delete removes one stored file. A missing file is not an error: the DB
// row is authoritative and disk state may lag behind.
func (fs *FileStore) Delete(filename string) error {
	p, err := fs.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteRun removes the given files and then the run directory if it is
// empty.
func (fs *FileStore) DeleteRun(runID int64, filenames []string) error {
	for _, f := range filenames {
		if err := fs.Delete(f); err != nil {
			return err
		}
	}
	runDir := filepath.Join(fs.root, fmt.Sprintf("%d", runID))
	if entries, err := os.ReadDir(runDir); err == nil && len(entries) == 0 {
		_ = os.Remove(runDir)
	}
	return nil
}

func (fs *FileStore) resolve(filename string) (string, error) {
	p := filepath.Join(fs.root, filepath.Clean("/"+filename))
	if !strings.HasPrefix(p, filepath.Clean(fs.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("filename escapes store root: %q", filename)
	}
	return p, nil
}
