package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/fileutil"
)

/*
Responsibilities
- Load and persist the single flat key-value cache mapping
- Keep the persisted layout identical to the legacy flat JSON file

Persistence Characteristics
- The mapping is written in full on every save, no incremental writes
- Load failure of any kind yields an empty store, never an error
- No eviction, no TTL, no locking: two processes writing the same file
  race with last-writer-wins semantics
*/

type FileStore struct {
	path         string
	metadataSink metadata.MetadataSink
}

func NewFileStore(path string, metadataSink metadata.MetadataSink) FileStore {
	return FileStore{
		path:         path,
		metadataSink: metadataSink,
	}
}

// Path returns the location of the persisted cache file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted mapping from disk. A missing, unreadable or
// malformed file is not an error condition: the store starts empty.
func (s *FileStore) Load() Store {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return Store{}
	}
	store := Store{}
	if err := json.Unmarshal(content, &store); err != nil {
		return Store{}
	}
	return store
}

// Save serializes the full mapping and overwrites the persisted file.
// The cache file's directory is created on first save if absent.
func (s *FileStore) Save(store Store) failure.ClassifiedError {
	if err := s.save(store); err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"cache",
			"FileStore.Save",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return storageError
	}
	return nil
}

func (s *FileStore) save(store Store) failure.ClassifiedError {
	content, err := json.Marshal(store)
	if err != nil {
		return &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseEncodeFailure,
			Path:      s.path,
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return &StorageError{
				Message:   err.Error(),
				Retryable: false,
				Cause:     ErrCausePathError,
				Path:      dir,
			}
		}
	}

	if err := os.WriteFile(s.path, content, 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      s.path,
		}
	}

	return nil
}
