package services

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ImageStore keeps normalized car images as files under a directory that is
// served publicly at baseURL.
type ImageStore struct {
	dir     string
	baseURL string
}

func NewImageStore(dir, baseURL string) *ImageStore {
	return &ImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9-]+`)

// Save writes a WebP image for the car identified by code and returns the new
// filename. Every call yields a distinct name, so replacing the image of a car
// never overwrites the file the current record still points at.
func (s *ImageStore) Save(data []byte, code string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	prefix := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(code), "-"), "-")
	if prefix == "" {
		prefix = "car"
	}
	name := fmt.Sprintf("%s-%s.webp", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return name, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *ImageStore) Delete(ref string) error {
	name := s.nameOf(ref)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}
	return nil
}

const stashPrefix = ".trash-"

// Stash moves a stored image aside so it can still be brought back with
// Restore. It returns the stashed name, or "" when there was no file.
func (s *ImageStore) Stash(ref string) (string, error) {
	name := s.nameOf(ref)
	if name == "" {
		return "", nil
	}
	stashed := stashPrefix + name
	err := os.Rename(filepath.Join(s.dir, name), filepath.Join(s.dir, stashed))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stash image %s: %w", name, err)
	}
	return stashed, nil
}

// Restore undoes Stash, putting the file back under the name ref points at.
func (s *ImageStore) Restore(stashed, ref string) error {
	name := s.nameOf(ref)
	if stashed == "" || name == "" {
		return nil
	}
	if err := os.Rename(filepath.Join(s.dir, stashed), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to restore image %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the referenced image is on disk.
func (s *ImageStore) Exists(ref string) bool {
	name := s.nameOf(ref)
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// URL expands a stored reference into its public URL. References that are
// already URLs (rows written before filenames were stored) pass through.
func (s *ImageStore) URL(ref string) string {
	if ref == "" || isURL(ref) {
		return ref
	}
	return s.baseURL + "/" + ref
}

// nameOf maps a reference to a filename inside the store, or "" when the
// reference points somewhere else.
func (s *ImageStore) nameOf(ref string) string {
	if ref == "" {
		return ""
	}
	if isURL(ref) {
		if !strings.HasPrefix(ref, s.baseURL+"/") {
			return ""
		}
		ref = strings.TrimPrefix(ref, s.baseURL+"/")
	}
	if ref != path.Base(ref) || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return ""
	}
	return ref
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "/") || strings.Contains(ref, "://")
}
