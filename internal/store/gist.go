package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

const (
	gistAPIBase   = "https://api.github.com/gists"
	gistFileName  = "users.json"
	gistUserAgent = "Reading-Tracker"

	gistTimeout = 10 * time.Second
)

// GistBackend is the backup document store: a single gist holding the whole
// snapshot as one JSON file, replaced wholesale on every write. Missing
// credentials disable the adapter entirely ("not configured", not an error).
type GistBackend struct {
	id     string
	token  string
	base   string
	client *http.Client
	log    zerolog.Logger
}

// NewGist builds the backup adapter. id and token may be empty.
func NewGist(id, token string, log zerolog.Logger) *GistBackend {
	return &GistBackend{
		id:     id,
		token:  token,
		base:   gistAPIBase,
		client: &http.Client{Timeout: gistTimeout},
		log:    log.With().Str("backend", "gist").Logger(),
	}
}

// Name implements Backend.
func (b *GistBackend) Name() string { return "gist" }

// Available reports whether credentials are configured.
func (b *GistBackend) Available(_ context.Context) bool {
	return b != nil && b.id != "" && b.token != ""
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDocument struct {
	Files map[string]gistFile `json:"files"`
}

// Read fetches the gist and decodes the snapshot file. An unconfigured
// adapter or a gist without the snapshot file reads as the empty sentinel.
func (b *GistBackend) Read(ctx context.Context) (*model.Snapshot, error) {
	if !b.Available(ctx) {
		return model.EmptySnapshot(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+"/"+b.id, nil)
	if err != nil {
		return nil, errs.NewBackendError(b.Name(), err)
	}
	b.setHeaders(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("fetch gist: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("fetch gist: HTTP %d", resp.StatusCode))
	}

	var doc gistDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("decode gist: %w", err))
	}

	file, ok := doc.Files[gistFileName]
	if !ok || file.Content == "" {
		return model.EmptySnapshot(), nil
	}

	snap := model.EmptySnapshot()
	if err := json.Unmarshal([]byte(file.Content), snap); err != nil {
		return nil, errs.NewBackendError(b.Name(), fmt.Errorf("decode snapshot: %w", err))
	}
	b.log.Debug().Int("users", len(snap.Users)).Msg("snapshot read from gist")
	return snap, nil
}

// Write replaces the snapshot file with the full payload.
func (b *GistBackend) Write(ctx context.Context, snap *model.Snapshot) error {
	if !b.Available(ctx) {
		return errs.NewBackendError(b.Name(), fmt.Errorf("not configured"))
	}

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("encode snapshot: %w", err))
	}

	body, err := json.Marshal(gistDocument{
		Files: map[string]gistFile{gistFileName: {Content: string(content)}},
	})
	if err != nil {
		return errs.NewBackendError(b.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, b.base+"/"+b.id, bytes.NewReader(body))
	if err != nil {
		return errs.NewBackendError(b.Name(), err)
	}
	b.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return errs.NewBackendError(b.Name(), fmt.Errorf("update gist: %w", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errs.NewBackendError(b.Name(), fmt.Errorf("update gist: HTTP %d", resp.StatusCode))
	}
	b.log.Debug().Int("users", len(snap.Users)).Msg("snapshot written to gist")
	return nil
}

func (b *GistBackend) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+b.token)
	req.Header.Set("User-Agent", gistUserAgent)
}
