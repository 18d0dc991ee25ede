package platform

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// StateStore carries the saved-state buffer across process restarts on hosts
// that do not keep it themselves.
type StateStore interface {
	// Load returns the stored buffer, nil if there is none.
	Load() ([]byte, error)
	Store(buf []byte) error
}

// FileStore keeps the saved state in a single file.
type FileStore struct {
	Path string
}

// Load implements StateStore. A missing file is not an error.
func (fs FileStore) Load() ([]byte, error) {
	buf, err := ioutil.ReadFile(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return buf, nil
}

// Store implements StateStore. The file is replaced atomically.
func (fs FileStore) Store(buf []byte) error {
	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := ioutil.TempFile(dir, ".state-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fs.Path)
}

// MemoryStore keeps the saved state in memory. Its zero value is empty.
type MemoryStore struct {
	buf []byte
}

// Load implements StateStore.
func (ms *MemoryStore) Load() ([]byte, error) {
	if ms.buf == nil {
		return nil, nil
	}
	return append([]byte(nil), ms.buf...), nil
}

// Store implements StateStore.
func (ms *MemoryStore) Store(buf []byte) error {
	ms.buf = append([]byte(nil), buf...)
	return nil
}
