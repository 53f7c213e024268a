package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// UsersFile is the filename of the JSON user collection.
const UsersFile = "users.json"

// FileStore keeps the user collection as a single JSON array.
type FileStore struct {
	path string
}

// NewFileStore creates a store at dataDir/users.json.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{path: filepath.Join(dataDir, UsersFile)}
}

// Path returns the absolute path of the users file.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the collection. A missing file means no users yet.
func (fs *FileStore) Load() ([]User, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", UsersFile, err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", UsersFile, err)
	}
	return users, nil
}

// Save replaces the whole collection. It writes a temp file next to the
// target and renames it over, so readers never see a partial file.
func (fs *FileStore) Save(users []User) error {
	if users == nil {
		users = []User{}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling users: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, UsersFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp users file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp users file: %w", err)
	}

	if err := os.Rename(tmpPath, fs.path); err != nil {
		return fmt.Errorf("replacing %s: %w", UsersFile, err)
	}
	return nil
}
