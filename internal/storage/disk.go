package storage

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidName is returned for names that would escape the upload directory
var ErrInvalidName = errors.New("invalid file name")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// maxSaveAttempts bounds the search for a free filename
const maxSaveAttempts = 10

// FileInfo describes a stored file
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// DiskStore keeps uploaded design images in one directory
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates the upload directory if needed
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create upload directory")
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Dir returns the upload directory
func (s *DiskStore) Dir() string {
	return s.dir
}

// SanitizeName reduces an uploaded filename to a safe base name
func SanitizeName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}

// Save writes r to a new file named "<unix-millis>-<sanitized name>" and
// returns that name. A taken name moves the timestamp forward.
func (s *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	base := SanitizeName(originalName)
	millis := s.now().UnixMilli()

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		name := strconv.FormatInt(millis+int64(attempt), 10) + "-" + base
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to create upload file")
		}

		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			os.Remove(path)
			return "", errors.Wrap(err, "failed to write upload file")
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", errors.Wrap(err, "failed to close upload file")
		}
		return name, nil
	}

	return "", errors.Errorf("no free file name for %q", base)
}

// Path resolves a stored name to its location on disk
func (s *DiskStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *DiskStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %s", name)
	}
	return nil
}

// List returns the regular files in the upload directory
func (s *DiskStore) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload directory")
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return files, nil
}
