package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

// StaticBackend is the read-only last-resort fallback: a JSON snapshot file
// provisioned out of band. Absence of the file is normal, not an error.
type StaticBackend struct {
	path string
	log  zerolog.Logger
}

// NewStatic builds the static source. path may be empty.
func NewStatic(path string, log zerolog.Logger) *StaticBackend {
	return &StaticBackend{path: path, log: log.With().Str("backend", "static").Logger()}
}

// Name implements Backend.
func (b *StaticBackend) Name() string { return "static" }

// Available reports whether the snapshot file exists.
func (b *StaticBackend) Available(_ context.Context) bool {
	if b == nil || b.path == "" {
		return false
	}
	_, err := os.Stat(b.path)
	return err == nil
}

// Read parses the snapshot file.
func (b *StaticBackend) Read(_ context.Context) (*model.Snapshot, error) {
	if b == nil || b.path == "" {
		return model.EmptySnapshot(), nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.EmptySnapshot(), nil
		}
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("read %s: %w", b.path, err))
	}

	snap := model.EmptySnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("decode %s: %w", b.path, err))
	}
	return snap, nil
}
