package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNoUsageRecord signals that no usage document exists yet. Callers treat
// this as a valid fresh start, not a failure.
var ErrNoUsageRecord = errors.New("no usage record")

// UsageStore persists the UsageRecord as a small JSON document on disk,
// compatible with the usage file of earlier tracker versions.
type UsageStore struct {
	path string
}

func NewUsageStore(path string) *UsageStore {
	return &UsageStore{path: path}
}

// Load reads the usage document. A missing file yields ErrNoUsageRecord; a
// corrupt file yields a wrapped parse error. Either way the caller falls
// back to a zeroed record.
func (store *UsageStore) Load() (UsageRecord, error) {
	data, readErr := os.ReadFile(store.path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return UsageRecord{}, ErrNoUsageRecord
		}

		return UsageRecord{}, fmt.Errorf("usageStore: failed to read %s: %w", store.path, readErr)
	}

	var record UsageRecord
	if parseErr := json.Unmarshal(data, &record); parseErr != nil {
		return UsageRecord{}, fmt.Errorf("usageStore: failed to parse %s: %w", store.path, parseErr)
	}

	return record, nil
}

// Save writes the usage document, replacing any previous content.
func (store *UsageStore) Save(record UsageRecord) error {
	data, marshalErr := json.Marshal(record)
	if marshalErr != nil {
		return fmt.Errorf("usageStore: failed to marshal record: %w", marshalErr)
	}

	if writeErr := os.WriteFile(store.path, data, 0o644); writeErr != nil {
		return fmt.Errorf("usageStore: failed to write %s: %w", store.path, writeErr)
	}

	return nil
}
