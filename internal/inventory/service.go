package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/01moynul/inventario-golang/internal/logger"
	"github.com/01moynul/inventario-golang/internal/metrics"
	"github.com/01moynul/inventario-golang/internal/models"
	"github.com/01moynul/inventario-golang/internal/storage"
)

// Settings are the runtime options an operator can change while the
// process runs.
type Settings struct {
	Normalize           NormalizeOptions `json:"normalize"`
	AllowDeleteFiltered bool             `json:"allowDeleteFiltered"`
	RefreshSeconds      int              `json:"refreshSeconds"`
	BaseURL             string           `json:"baseUrl"`
}

// SettingsPatch carries a partial settings update; nil fields are kept.
type SettingsPatch struct {
	Case                *CaseMode `json:"case"`
	Trim                *bool     `json:"trim"`
	AllowDeleteFiltered *bool     `json:"allowDeleteFiltered"`
	RefreshSeconds      *int      `json:"refreshSeconds"`
	BaseURL             *string   `json:"baseUrl"`
}

// Service runs every inventory operation against one store. Mutations are
// read-modify-write cycles: fresh load, pure operation, full save. They are
// serialized inside the process; separate processes writing to the same
// backend still race and the last full save wins.
type Service struct {
	store   storage.Store
	metrics *metrics.Collectors

	writeMu sync.Mutex

	mu          sync.RWMutex
	settings    Settings
	snapshot    []models.Record
	loaded      bool
	loadErr     error
	refreshedAt time.Time
	// generation counts persisted mutations. A refresh whose load started
	// before the latest one is discarded.
	generation uint64
}

// NewService wires a service to its store. m may be nil.
func NewService(store storage.Store, settings Settings, m *metrics.Collectors) *Service {
	return &Service{store: store, settings: settings, metrics: m}
}

// Backend reports which storage backend is active.
func (s *Service) Backend() storage.Backend {
	return s.store.Backend()
}

// Settings returns the current runtime settings.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies a partial update and returns the result.
func (s *Service) UpdateSettings(p SettingsPatch) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Case != nil {
		s.settings.Normalize.Case = *p.Case
	}
	if p.Trim != nil {
		s.settings.Normalize.Trim = *p.Trim
	}
	if p.AllowDeleteFiltered != nil {
		s.settings.AllowDeleteFiltered = *p.AllowDeleteFiltered
	}
	if p.RefreshSeconds != nil && *p.RefreshSeconds >= 0 {
		s.settings.RefreshSeconds = *p.RefreshSeconds
	}
	if p.BaseURL != nil {
		s.settings.BaseURL = *p.BaseURL
	}
	return s.settings
}

// Snapshot returns the records of the last load, loading on first use. A
// non-nil error is a *storage.ReadError warning; the records are then empty.
func (s *Service) Snapshot(ctx context.Context) ([]models.Record, error) {
	s.mu.RLock()
	if s.loaded {
		out := clone(s.snapshot)
		err := s.loadErr
		s.mu.RUnlock()
		return out, err
	}
	s.mu.RUnlock()
	return s.Refresh(ctx)
}

// RefreshedAt is the time of the last load.
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Refresh replaces the snapshot with what is currently persisted. It never
// merges: concurrent edits made elsewhere simply become visible.
func (s *Service) Refresh(ctx context.Context) ([]models.Record, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		s.countStorageError("load")
		logger.Logger.Warn().Err(err).Str("backend", s.Backend().String()).Msg("Could not read inventory")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		logger.Logger.Debug().Msg("Discarding stale inventory load")
		return clone(s.snapshot), s.loadErr
	}
	s.replaceSnapshot(records, err)
	return clone(records), err
}

// StartRefresher reloads the snapshot every RefreshSeconds until ctx ends.
// A zero interval pauses polling; the interval is re-read after every tick
// so settings changes take effect without a restart. The returned channel is
// closed once the worker has stopped.
func (s *Service) StartRefresher(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Logger.Info().Msg("Refresh worker started")
		for {
			wait := time.Duration(s.Settings().RefreshSeconds) * time.Second
			poll := wait > 0
			if !poll {
				wait = time.Second
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Logger.Info().Msg("Refresh worker stopped")
				return
			case <-timer.C:
			}

			if poll {
				s.Refresh(ctx)
			}
		}
	}()
	return done
}

// AddItem validates and appends a new record, then persists the full set.
func (s *Service) AddItem(ctx context.Context, c Candidate) (models.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	full, err := s.loadForWrite(ctx)
	if err != nil {
		return models.Record{}, err
	}

	next, rec, err := Add(full, c, s.Settings().Normalize)
	if err != nil {
		s.countMutation("add", err)
		return models.Record{}, err
	}
	if err := s.persist(ctx, "add", next); err != nil {
		return models.Record{}, err
	}

	logger.Logger.Info().Str("id", rec.ID).Msg("Inventory item added")
	return rec, nil
}

// ApplyEdits merges an edited view into the persisted set. The filter that
// produced the view decides, together with the settings, whether rows
// missing from the view may be deleted.
func (s *Service) ApplyEdits(ctx context.Context, edited, original []models.Record, f Filter) (ReconcileResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	full, err := s.loadForWrite(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	settings := s.Settings()
	res, err := Reconcile(full, edited, original, ReconcileOptions{
		DeleteAllowed: DeleteAllowed(f, settings.AllowDeleteFiltered),
		Normalize:     settings.Normalize,
	})
	if err != nil {
		s.countMutation("edit", err)
		return ReconcileResult{}, err
	}
	if !res.Changed {
		return res, nil
	}
	if err := s.persist(ctx, "edit", res.Records); err != nil {
		return ReconcileResult{}, err
	}

	logger.Logger.Info().Int("removed", len(res.Removed)).Msg("Inventory edits saved")
	return res, nil
}

// UpdateItem overwrites the mutable fields of one record. It never deletes.
func (s *Service) UpdateItem(ctx context.Context, rec models.Record) (models.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	full, err := s.loadForWrite(ctx)
	if err != nil {
		return models.Record{}, err
	}
	if indexOf(full, rec.ID) < 0 {
		return models.Record{}, ErrNotFound
	}

	res, err := Reconcile(full, []models.Record{rec}, nil, ReconcileOptions{
		Normalize: s.Settings().Normalize,
	})
	if err != nil {
		s.countMutation("update", err)
		return models.Record{}, err
	}
	updated := res.Records[indexOf(res.Records, rec.ID)]
	if !res.Changed {
		return updated, nil
	}
	if err := s.persist(ctx, "update", res.Records); err != nil {
		return models.Record{}, err
	}
	return updated, nil
}

// DeleteItem removes one record by id.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	full, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	i := indexOf(full, id)
	if i < 0 {
		return ErrNotFound
	}

	view := make([]models.Record, 0, len(full)-1)
	view = append(view, full[:i]...)
	view = append(view, full[i+1:]...)

	res, err := Reconcile(full, view, nil, ReconcileOptions{
		DeleteAllowed: true,
		Normalize:     s.Settings().Normalize,
	})
	if err != nil {
		s.countMutation("delete", err)
		return err
	}
	if err := s.persist(ctx, "delete", res.Records); err != nil {
		return err
	}

	logger.Logger.Info().Str("id", id).Msg("Inventory item deleted")
	return nil
}

// loadForWrite reads the persisted set for a mutation. Unlike reads, a
// failed load aborts: saving on top of the empty fallback would wipe the
// backend.
func (s *Service) loadForWrite(ctx context.Context) ([]models.Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.countStorageError("load")
		logger.Logger.Warn().Err(err).Msg("Mutation aborted, inventory could not be read")
		return nil, err
	}
	return records, nil
}

func (s *Service) persist(ctx context.Context, op string, records []models.Record) error {
	if err := s.store.Save(ctx, records); err != nil {
		s.countStorageError("save")
		s.countMutation(op, err)
		logger.Logger.Error().Err(err).Str("operation", op).Str("backend", s.Backend().String()).Msg("Could not save inventory")
		return err
	}
	s.countMutation(op, nil)
	s.commitSnapshot(records)
	return nil
}

// commitSnapshot installs the set a mutation just persisted.
func (s *Service) commitSnapshot(records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.replaceSnapshot(records, nil)
}

// replaceSnapshot requires s.mu to be held.
func (s *Service) replaceSnapshot(records []models.Record, err error) {
	s.snapshot = clone(records)
	s.loaded = true
	s.loadErr = err
	s.refreshedAt = time.Now()
	if s.metrics != nil {
		s.metrics.Records.Set(float64(len(records)))
	}
}

func (s *Service) countMutation(op string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case IsDuplicate(err):
		result = "duplicate"
		s.metrics.DuplicateConflicts.WithLabelValues(op).Inc()
	default:
		result = "error"
	}
	s.metrics.Mutations.WithLabelValues(op, result).Inc()
}

func (s *Service) countStorageError(op string) {
	if s.metrics == nil {
		return
	}
	s.metrics.StorageErrors.WithLabelValues(s.Backend().String(), op).Inc()
}

// IsReadFailure reports whether err is a non-fatal storage read failure.
func IsReadFailure(err error) bool {
	var re *storage.ReadError
	return errors.As(err, &re)
}

// IsWriteFailure reports whether err is a storage write failure.
func IsWriteFailure(err error) bool {
	var we *storage.WriteError
	return errors.As(err, &we)
}

func indexOf(records []models.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func clone(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	return out
}
