package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
	"github.com/GregMSThompson/projecthub-dashboard/internal/layout"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/persist"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

// DashboardStore owns every dashboard layout, keyed by layout key. The in-memory map is
// the source of truth; each mutation schedules an asynchronous write of the whole map to
// the blob store. All values crossing the API are deep copies.
type DashboardStore struct {
	mu      sync.RWMutex
	layouts map[string]models.DashboardLayoutState

	reg      *registry.Registry
	blobs    persist.BlobStore
	codec    *persist.Codec
	blobName string
	timeout  time.Duration
	now      func() time.Time
	log      *slog.Logger

	dirty   chan struct{}
	flushes chan chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

const DefaultWriteTimeout = 30 * time.Second

type Option func(*DashboardStore)

func WithClock(now func() time.Time) Option {
	return func(s *DashboardStore) { s.now = now }
}

func WithBlobName(name string) Option {
	return func(s *DashboardStore) { s.blobName = name }
}

// WithWriteTimeout bounds each background write to the blob store.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *DashboardStore) { s.timeout = d }
}

func WithCodec(c *persist.Codec) Option {
	return func(s *DashboardStore) { s.codec = c }
}

// NewDashboardStore loads the persisted layouts once and starts the background writer.
// Only a failing backend is an error; unreadable content is discarded by the codec.
func NewDashboardStore(ctx context.Context, reg *registry.Registry, blobs persist.BlobStore, opts ...Option) (*DashboardStore, error) {
	s := &DashboardStore{
		layouts:  make(map[string]models.DashboardLayoutState),
		reg:      reg,
		blobs:    blobs,
		codec:    persist.NewCodec(),
		blobName: persist.DefaultLayoutsBlob,
		timeout:  DefaultWriteTimeout,
		now:      time.Now,
		log:      logger.FromContext(ctx),
		dirty:    make(chan struct{}, 1),
		flushes:  make(chan chan struct{}),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	data, err := blobs.Load(ctx, s.blobName)
	switch {
	case errors.Is(err, persist.ErrBlobNotFound):
		s.log.Info("no persisted dashboard layouts", "blob", s.blobName)
	case err != nil:
		return nil, errs.NewDatabaseError("read", "failed to load dashboard layouts", err)
	default:
		s.layouts = s.codec.Decode(data, s.log).LayoutsByKey
		s.log.Info("loaded dashboard layouts", "blob", s.blobName, "count", len(s.layouts))
	}

	go s.writer()
	return s, nil
}

// GetLayout returns the stored state for key without creating one.
func (s *DashboardStore) GetLayout(_ context.Context, key string) (models.DashboardLayoutState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.layouts[key]
	if !ok {
		return models.DashboardLayoutState{}, false
	}
	return st.Clone(), true
}

// GetOrCreateLayout returns the stored state for key, creating the role's default on first
// access. Once created it is never regenerated implicitly.
func (s *DashboardStore) GetOrCreateLayout(ctx context.Context, key string, role models.Role) models.DashboardLayoutState {
	if st, ok := s.GetLayout(ctx, key); ok {
		return st
	}

	s.mu.Lock()
	st, ok := s.layouts[key]
	if !ok {
		st = layout.DefaultDashboardLayout(s.reg, role, s.now())
		s.layouts[key] = st
	}
	s.mu.Unlock()

	if !ok {
		logger.FromContext(ctx).Info("created default dashboard layout", "key", key, "role", role, "widgets", len(st.EnabledWidgetIDs))
		s.markDirty()
	}
	return st.Clone()
}

// SaveLayout replaces the state at key wholesale and stamps UpdatedAt. The layout is not
// checked against the registry.
func (s *DashboardStore) SaveLayout(ctx context.Context, key string, st models.DashboardLayoutState) models.DashboardLayoutState {
	st = st.Clone()
	st.UpdatedAt = s.now()

	s.mu.Lock()
	s.layouts[key] = st
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("saved dashboard layout", "key", key, "widgets", len(st.EnabledWidgetIDs))
	s.markDirty()
	return st.Clone()
}

// ResetLayout discards any customization at key and stores a fresh default for role.
func (s *DashboardStore) ResetLayout(ctx context.Context, key string, role models.Role) models.DashboardLayoutState {
	st := layout.DefaultDashboardLayout(s.reg, role, s.now())

	s.mu.Lock()
	s.layouts[key] = st
	s.mu.Unlock()

	logger.FromContext(ctx).Info("reset dashboard layout", "key", key, "role", role)
	s.markDirty()
	return st.Clone()
}

// Keys lists stored layout keys in sorted order.
func (s *DashboardStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.layouts))
	for k := range s.layouts {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Flush blocks until every mutation made before the call has been written.
func (s *DashboardStore) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case s.flushes <- done:
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the writer. Further mutations stay in memory only.
func (s *DashboardStore) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.once.Do(func() { close(s.stop) })
	select {
	case <-s.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (s *DashboardStore) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
		// a write is already pending and will pick up this change
	}
}

func (s *DashboardStore) writer() {
	defer close(s.stopped)
	for {
		select {
		case <-s.dirty:
			s.persist()
		case done := <-s.flushes:
			s.drain()
			close(done)
		case <-s.stop:
			s.drain()
			return
		}
	}
}

func (s *DashboardStore) drain() {
	select {
	case <-s.dirty:
		s.persist()
	default:
	}
}

func (s *DashboardStore) persist() {
	s.mu.RLock()
	snapshot := models.NewPersistedLayouts()
	for k, v := range s.layouts {
		snapshot.LayoutsByKey[k] = v
	}
	s.mu.RUnlock()

	// stored values are replaced, never mutated, so encoding outside the lock is safe
	data, err := s.codec.Encode(snapshot, s.log)
	if err != nil {
		s.log.Error("failed to encode dashboard layouts", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.blobs.Save(ctx, s.blobName, data); err != nil {
		s.log.Error("failed to persist dashboard layouts", "blob", s.blobName, "error", err)
		return
	}
	s.log.Debug("persisted dashboard layouts", "blob", s.blobName, "count", len(snapshot.LayoutsByKey), "bytes", len(data))
}
