package update

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	apperrors "launcher/internal/errors"
)

// DefaultVersionFile is the file name of the installed version marker.
const DefaultVersionFile = "version"

// Store persists the installed version marker. It is the only component that
// reads or writes the backing file.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the installed version. It returns false when nothing was ever
// saved or when the file content is not a valid semantic version; malformed
// state is treated the same as "not installed".
func (s *Store) Load() (Version, bool) {
	//nolint:gosec // G304: path comes from launcher configuration
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Version{}, false
	}
	v, err := ParseVersion(string(data))
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// Save overwrites the installed version. The value is written to a temporary
// file next to the target and renamed into place, so concurrent readers see
// either the old or the new value.
func (s *Store) Save(v Version) error {
	if v.IsZero() {
		return apperrors.New(apperrors.CodeVersionStore, "save version", errors.New("empty version"))
	}

	dir := filepath.Dir(s.path)
	//nolint:gosec // G301: install directory needs standard permissions
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.New(apperrors.CodeVersionStore, "create version directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return apperrors.New(apperrors.CodeVersionStore, "create temp version file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(v.String()); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperrors.New(apperrors.CodeVersionStore, "write version", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return apperrors.New(apperrors.CodeVersionStore, "sync version", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return apperrors.New(apperrors.CodeVersionStore, "close version", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return apperrors.New(apperrors.CodeVersionStore, fmt.Sprintf("replace %s", s.path), err)
	}
	return nil
}
