package message

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/quickchat/internal/rules"
)

const (
	// MessagesDir is the subdirectory under the data dir where records live.
	MessagesDir = "messages"

	filePrefix = "message_"
	fileSuffix = ".json"
)

// RecordError reports a single message file that could not be read or
// parsed. Loads skip these records instead of failing.
type RecordError struct {
	File string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("message record %s: %v", e.File, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// FileStore persists messages as one JSON file per message ID.
type FileStore struct {
	dir string
	log *slog.Logger
}

// NewFileStore creates a store rooted at dataDir/messages. The directory
// is created lazily on first use.
func NewFileStore(dataDir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: filepath.Join(dataDir, MessagesDir), log: logger}
}

// Dir returns the directory that holds the message files.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// RecordPath returns the file path for a message ID. Callers check the id
// with rules.ValidMessageID first.
func (fs *FileStore) RecordPath(id string) string {
	return filepath.Join(fs.dir, filePrefix+id+fileSuffix)
}

// All yields every message record in file-name order. Unreadable or
// malformed records are yielded as a *RecordError so callers can decide
// whether to skip them. A directory-level failure is yielded once as a
// plain error.
func (fs *FileStore) All() iter.Seq2[*Message, error] {
	return func(yield func(*Message, error) bool) {
		if err := os.MkdirAll(fs.dir, 0o755); err != nil {
			yield(nil, fmt.Errorf("creating messages directory: %w", err))
			return
		}

		entries, err := os.ReadDir(fs.dir)
		if err != nil {
			yield(nil, fmt.Errorf("reading messages directory: %w", err))
			return
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
				continue
			}

			m, err := fs.readFile(filepath.Join(fs.dir, name))
			if err != nil {
				if !yield(nil, &RecordError{File: name, Err: err}) {
					return
				}
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// LoadAll returns every readable message. Bad records are logged and
// skipped; only a directory-level failure is returned as an error.
func (fs *FileStore) LoadAll() ([]*Message, error) {
	var out []*Message
	for m, err := range fs.All() {
		if err != nil {
			var recErr *RecordError
			if errors.As(err, &recErr) {
				fs.log.Warn("skipping unreadable message record", "file", recErr.File, "error", recErr.Err)
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Load reads the record for a single message ID.
func (fs *FileStore) Load(id string) (*Message, error) {
	if !rules.ValidMessageID(id) {
		return nil, fmt.Errorf("invalid message id %q", id)
	}
	m, err := fs.readFile(fs.RecordPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("message %q not found", id)
		}
		return nil, err
	}
	return m, nil
}

// Persist writes the full message record, replacing any existing record
// for the same ID.
func (fs *FileStore) Persist(m *Message) error {
	if !rules.ValidMessageID(m.ID) {
		return fmt.Errorf("persisting message: invalid message id %q", m.ID)
	}
	data, err := encodeRecord(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating messages directory: %w", err)
	}

	if err := os.WriteFile(fs.RecordPath(m.ID), data, 0o644); err != nil {
		return fmt.Errorf("writing message %s: %w", m.ID, err)
	}
	fs.log.Debug("message persisted", "message_id", m.ID, "status", m.Status)
	return nil
}

// DeleteByID removes the record for id. It reports whether a record was
// removed; unknown and empty IDs are a no-op.
func (fs *FileStore) DeleteByID(id string) (bool, error) {
	if !rules.ValidMessageID(id) {
		return false, nil
	}

	err := os.Remove(fs.RecordPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("deleting message %s: %w", id, err)
	}
	fs.log.Debug("message deleted", "message_id", id)
	return true, nil
}

func (fs *FileStore) readFile(path string) (*Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeRecord(data)
}
