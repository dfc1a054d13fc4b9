package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readtrack/internal/model"
	"readtrack/internal/store"
)

// memBackend is an always-available in-memory backend.
type memBackend struct {
	mu   sync.Mutex
	snap *model.Snapshot
}

func (b *memBackend) Name() string { return "memory" }

func (b *memBackend) Available(context.Context) bool { return true }

func (b *memBackend) Read(context.Context) (*model.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snap == nil {
		return model.EmptySnapshot(), nil
	}
	return b.snap, nil
}

func (b *memBackend) Write(_ context.Context, snap *model.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = snap
	return nil
}

func newTestFacade(snap *model.Snapshot) *store.Facade {
	primary := &memBackend{snap: snap}
	backup := &memBackend{}
	return store.NewFacade(primary, backup, &memBackend{}, 0, zerolog.Nop())
}

func TestBackupExport(t *testing.T) {
	facade := newTestFacade(&model.Snapshot{
		Users:  []model.User{{ID: 1, Name: "A", UnreadDays: 2}},
		Config: model.DefaultConfig(),
	})
	h := NewBackupHandler(facade)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/api/backup", "")

	require.NoError(t, h.Export(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var export BackupExport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.False(t, export.Timestamp.IsZero())
	require.Len(t, export.Users, 1)
	assert.Equal(t, "A", export.Users[0].Name)
	assert.Equal(t, 7, export.Config.MaxUnreadDays)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	facade := newTestFacade(model.EmptySnapshot())
	h := NewBackupHandler(facade)

	body := `{"version":"1.0","users":[{"id":5,"name":"B","isRead":false,"unreadDays":3}],"config":{"resetHour":4,"timezone":"Asia/Shanghai","maxUnreadDays":7}}`

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/api/backup/restore", body)

	require.NoError(t, h.Restore(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	facade.Flush()

	users, err := facade.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.UserID(5), users[0].ID)
	assert.Equal(t, 3, users[0].UnreadDays)
}

func TestBackupRestoreMissingUsers(t *testing.T) {
	h := NewBackupHandler(newTestFacade(model.EmptySnapshot()))

	e := newTestEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/api/backup/restore", `{"version":"1.0"}`)

	err := h.Restore(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestBackupRestoreDefaultsBadConfig(t *testing.T) {
	facade := newTestFacade(model.EmptySnapshot())
	h := NewBackupHandler(facade)

	body := `{"version":"1.0","users":[],"config":{"maxUnreadDays":0}}`

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/api/backup/restore", body)

	require.NoError(t, h.Restore(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	facade.Flush()

	cfg, err := facade.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxUnreadDays)
}
