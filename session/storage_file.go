package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Storage = (*FileStorage)(nil)

// FileStorage persists credentials as a single JSON document in the
// application data folder, so a restarted process can restore its
// session. Writes go through a temp file and rename.
type FileStorage struct {
	path   string
	lock   sync.Mutex
	values map[string]string
}

// NewFileStorage loads (or creates) the storage file at path. A missing
// or unreadable file starts empty rather than failing: corrupt storage
// is handled by the Store's restore path, not here.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("[NewFileStorage] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStorage] create data folder")
	}

	fs := &FileStorage{path: path, values: map[string]string{}}
	if data, err := os.ReadFile(path); err == nil {
		// Ignore unmarshal errors: the file starts over empty.
		_ = json.Unmarshal(data, &fs.values)
	}
	return fs, nil
}

func (fs *FileStorage) Get(key string) (string, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	value, ok := fs.values[key]
	return value, ok
}

func (fs *FileStorage) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[key] = value
	return fs.flush()
}

func (fs *FileStorage) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, key)
	return fs.flush()
}

func (fs *FileStorage) flush() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStorage.flush] encode")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStorage.flush] write")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStorage.flush] rename")
	}
	return nil
}
