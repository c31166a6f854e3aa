package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists the whole key space as one JSON document on disk. It is the
// "local device storage" backend: small data, single device, durability over
// throughput.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at path, creating parent directories
// as needed. A missing or unreadable file behaves as an empty store.
func NewFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &File{path: path}, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := f.read()
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := f.read()
	data[key] = value
	return f.write(data)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := f.read()
	delete(data, key)
	return f.write(data)
}

// read returns the current document, falling back to empty on absence or
// corruption. Callers already hold the mutex.
func (f *File) read() map[string]string {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return map[string]string{}
	}
	return data
}

func (f *File) write(data map[string]string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode storage document: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write storage document: %w", err)
	}
	return os.Rename(tmp, f.path)
}
