package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/user/career-survival/internal/interfaces"
)

// FileStore keeps every record in one JSON document on disk
type FileStore struct {
	savePath  string
	records   map[string]string
	stateLock sync.RWMutex
}

var (
	_ interfaces.Store     = (*FileStore)(nil)
	_ interfaces.KeyLister = (*FileStore)(nil)
)

// OpenFileStore loads the JSON document at savePath, starting empty when it does not exist
func OpenFileStore(savePath string) (*FileStore, error) {
	fs := &FileStore{
		savePath: savePath,
		records:  make(map[string]string),
	}

	// Check if file exists
	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		return fs, nil
	}

	data, err := os.ReadFile(savePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(data, &fs.records); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	if fs.records == nil {
		fs.records = make(map[string]string)
	}
	return fs, nil
}

// Get returns the value stored under key
func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	v, ok := fs.records[key]
	return v, ok, nil
}

// Set stores value under key and writes the document out
func (fs *FileStore) Set(key, value string) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	prev, had := fs.records[key]
	fs.records[key] = value
	if err := fs.flush(); err != nil {
		if had {
			fs.records[key] = prev
		} else {
			delete(fs.records, key)
		}
		return err
	}
	return nil
}

// Delete removes key and writes the document out
func (fs *FileStore) Delete(key string) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	prev, had := fs.records[key]
	if !had {
		return nil
	}
	delete(fs.records, key)
	if err := fs.flush(); err != nil {
		fs.records[key] = prev
		return err
	}
	return nil
}

// Keys lists the stored keys starting with prefix
func (fs *FileStore) Keys(prefix string) ([]string, error) {
	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	var keys []string
	for k := range fs.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// flush writes the records to disk. Callers must hold stateLock.
func (fs *FileStore) flush() error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(fs.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(fs.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	// Replaced through a temp file
	tmp := fs.savePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := os.Rename(tmp, fs.savePath); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}
