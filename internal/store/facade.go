package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

// backupWriteTimeout bounds the fire-and-forget backup propagation.
const backupWriteTimeout = 30 * time.Second

// SourceDefault is reported when every backend failed or was unavailable and
// the built-in empty dataset satisfied the read.
const SourceDefault = "default"

// Facade presents a single logical store over the primary, backup and static
// backends. Reads fall back in priority order; writes go to the primary with
// best-effort backup propagation, or synchronously to the backup when the
// primary is down.
//
// The write path is serialized by a mutex so concurrent read-modify-write
// cycles (CRUD vs reset engine vs periodic backup) cannot interleave within
// this process. Writers on other processes still race at full-document
// granularity, last write wins.
type Facade struct {
	primary WritableBackend
	backup  WritableBackend
	static  Backend

	// Freeze threshold override from the environment; 0 keeps the stored value.
	maxUnreadDaysOverride int

	mu  sync.Mutex
	wg  sync.WaitGroup
	log zerolog.Logger
}

// NewFacade composes the backends. backup and static may be nil.
func NewFacade(primary WritableBackend, backup WritableBackend, static Backend, maxUnreadDaysOverride int, log zerolog.Logger) *Facade {
	return &Facade{
		primary:               primary,
		backup:                backup,
		static:                static,
		maxUnreadDaysOverride: maxUnreadDaysOverride,
		log:                   log.With().Str("component", "store").Logger(),
	}
}

// ReadData returns the first snapshot from an available backend, in priority
// order primary, backup, static. A raised error moves on to the next backend;
// full exhaustion yields the default empty dataset. The second return names
// the source that satisfied the read.
func (f *Facade) ReadData(ctx context.Context) (*model.Snapshot, string, error) {
	backends := []Backend{}
	if f.primary != nil {
		backends = append(backends, f.primary)
	}
	if f.backup != nil {
		backends = append(backends, f.backup)
	}
	if f.static != nil {
		backends = append(backends, f.static)
	}

	for _, b := range backends {
		if !b.Available(ctx) {
			continue
		}
		snap, err := b.Read(ctx)
		if err != nil {
			f.log.Error().Err(err).Str("source", b.Name()).Msg("read failed, falling back")
			continue
		}
		return snap, b.Name(), nil
	}

	f.log.Warn().Msg("no backend satisfied the read, using default empty dataset")
	return model.EmptySnapshot(), SourceDefault, nil
}

// WriteData persists the snapshot according to the write policy.
func (f *Facade) WriteData(ctx context.Context, snap *model.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeLocked(ctx, snap)
}

func (f *Facade) writeLocked(ctx context.Context, snap *model.Snapshot) error {
	if f.primary != nil && f.primary.Available(ctx) {
		if err := f.primary.Write(ctx, snap); err != nil {
			return err
		}
		f.propagateToBackup(snap)
		return nil
	}

	// Primary down: the backup becomes the system of record for this write.
	if f.backup != nil && f.backup.Available(ctx) {
		f.log.Warn().Msg("primary unavailable, writing snapshot to backup")
		return f.backup.Write(ctx, snap)
	}

	return errs.ErrStoreUnavailable
}

// propagateToBackup copies the snapshot to the backup store without blocking
// the caller. Failures only feed the log.
func (f *Facade) propagateToBackup(snap *model.Snapshot) {
	if f.backup == nil || !f.backup.Available(context.Background()) {
		return
	}
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backupWriteTimeout)
		defer cancel()
		if err := f.backup.Write(ctx, snap); err != nil {
			f.log.Error().Err(err).Msg("backup propagation failed (non-fatal)")
		}
	}()
}

// Flush waits for in-flight backup propagation. Used on shutdown and in tests.
func (f *Facade) Flush() {
	f.wg.Wait()
}

// BackupNow reads the primary's authoritative snapshot and replaces the backup
// document with it. Invoked by the periodic backup job.
func (f *Facade) BackupNow(ctx context.Context) error {
	if f.primary == nil || !f.primary.Available(ctx) {
		f.log.Debug().Msg("periodic backup skipped, primary unavailable")
		return nil
	}
	if f.backup == nil || !f.backup.Available(ctx) {
		f.log.Debug().Msg("periodic backup skipped, backup not configured")
		return nil
	}

	snap, err := f.primary.Read(ctx)
	if err != nil {
		return err
	}
	if err := f.backup.Write(ctx, snap); err != nil {
		return err
	}
	f.log.Info().Int("users", len(snap.Users)).Msg("periodic backup completed")
	return nil
}

// GetUsers returns the current user collection.
func (f *Facade) GetUsers(ctx context.Context) ([]model.User, error) {
	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Users, nil
}

// GetConfig returns the tracker config, with the environment override applied
// to the freeze threshold when set.
func (f *Facade) GetConfig(ctx context.Context) (model.Config, error) {
	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return model.DefaultConfig(), err
	}
	cfg := snap.Config
	if f.maxUnreadDaysOverride > 0 {
		cfg.MaxUnreadDays = f.maxUnreadDaysOverride
	}
	if cfg.MaxUnreadDays < 1 {
		cfg.MaxUnreadDays = model.DefaultConfig().MaxUnreadDays
	}
	return cfg, nil
}

// AddUser assigns a time-derived id, appends the user and persists the
// collection.
func (f *Facade) AddUser(ctx context.Context, user model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return nil, err
	}

	id := model.UserID(time.Now().UnixMilli())
	for hasUserID(snap.Users, id) {
		id++
	}
	user.ID = id

	snap.Users = append(snap.Users, user)
	if err := f.writeLocked(ctx, snap); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser merges the patch into the user with the given id and persists.
// Returns ErrUserNotFound when no user matches.
func (f *Facade) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range snap.Users {
		if snap.Users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errs.ErrUserNotFound
	}

	patch.Apply(&snap.Users[idx])
	if err := f.writeLocked(ctx, snap); err != nil {
		return nil, err
	}
	updated := snap.Users[idx]
	return &updated, nil
}

// DeleteUser filters the user out of the collection and persists. Returns
// ErrUserNotFound when no row matched.
func (f *Facade) DeleteUser(ctx context.Context, id model.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return err
	}

	filtered := snap.Users[:0:0]
	for _, u := range snap.Users {
		if u.ID != id {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) == len(snap.Users) {
		return errs.ErrUserNotFound
	}

	snap.Users = filtered
	return f.writeLocked(ctx, snap)
}

// UpdateLastResetTime stamps config.lastReset with the current time.
func (f *Facade) UpdateLastResetTime(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap, _, err := f.ReadData(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	snap.Config.LastReset = &now
	return f.writeLocked(ctx, snap)
}

func hasUserID(users []model.User, id model.UserID) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
