package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/01moynul/inventario-golang/internal/metrics"
	"github.com/01moynul/inventario-golang/internal/models"
	"github.com/01moynul/inventario-golang/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, settings Settings, records ...models.Record) (*Service, *storage.MemoryStore, *metrics.Collectors) {
	t.Helper()
	store := storage.NewMemoryStore(records...)
	m := metrics.New(prometheus.NewRegistry())
	return NewService(store, settings, m), store, m
}

func TestService_AddItemPersists(t *testing.T) {
	svc, store, m := newTestService(t, Settings{Normalize: NormalizeOptions{Case: CaseUpper, Trim: true}}, sampleSet()...)
	ctx := context.Background()

	rec, err := svc.AddItem(ctx, Candidate{Description: "Crema", Location: "Almacén C", SimilarID: "fam-c", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, "I-0004", rec.ID)
	assert.Equal(t, "FAM-C", rec.SimilarID)
	assert.Len(t, store.Records(), 4)
	assert.Equal(t, 1, store.Saves)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Records(), snap)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Mutations.WithLabelValues("add", "ok")))
}

func TestService_AddDuplicateDoesNotSave(t *testing.T) {
	svc, store, m := newTestService(t, Settings{}, sampleSet()...)

	_, err := svc.AddItem(context.Background(), Candidate{Description: "shampoo 1l", Location: "ALMACÉN A"})

	assert.True(t, IsDuplicate(err))
	assert.Equal(t, 0, store.Saves)
	assert.Equal(t, sampleSet(), store.Records())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DuplicateConflicts.WithLabelValues("add")))
}

func TestService_ApplyEditsFilteredDoesNotDelete(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)
	filter := Filter{Query: "jabón"}
	view := filter.Apply(sampleSet())
	edited := []models.Record{view[0]}
	edited[0].Quantity = 50

	res, err := svc.ApplyEdits(context.Background(), edited, view, filter)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Empty(t, res.Removed)
	persisted := store.Records()
	require.Len(t, persisted, 3)
	assert.Equal(t, 50, persisted[2].Quantity)
}

func TestService_ApplyEditsFilteredDeleteWhenOptedIn(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{AllowDeleteFiltered: true}, sampleSet()...)
	filter := Filter{Query: "shampoo"}
	view := filter.Apply(sampleSet())

	// The user deleted I-0002 from the filtered view.
	res, err := svc.ApplyEdits(context.Background(), view[:1], view, filter)
	require.NoError(t, err)

	// Rows hidden by the filter are also absent from the view, so they go too.
	assert.ElementsMatch(t, []string{"I-0002", "I-0003"}, res.Removed)
	assert.Len(t, store.Records(), 1)
}

func TestService_ApplyEditsUnfilteredDeletes(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)
	full := sampleSet()
	edited := []models.Record{full[0], full[2]}

	res, err := svc.ApplyEdits(context.Background(), edited, full, Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"I-0002"}, res.Removed)
	assert.Equal(t, edited, store.Records())
}

func TestService_ApplyEditsNoChangeSkipsSave(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)

	res, err := svc.ApplyEdits(context.Background(), sampleSet(), sampleSet(), Filter{})
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, 0, store.Saves)
}

func TestService_ReadFailureAbortsMutation(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)
	store.LoadErr = errors.New("sheet unreachable")

	_, err := svc.AddItem(context.Background(), Candidate{Description: "X"})

	assert.True(t, IsReadFailure(err))
	assert.Equal(t, 0, store.Saves)
}

func TestService_ReadFailureDegradesToEmptySnapshot(t *testing.T) {
	svc, store, m := newTestService(t, Settings{}, sampleSet()...)
	store.LoadErr = errors.New("sheet unreachable")

	records, err := svc.Refresh(context.Background())

	assert.True(t, IsReadFailure(err))
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageErrors.WithLabelValues("Archivo CSV local", "load")))
}

func TestService_WriteFailureIsReported(t *testing.T) {
	svc, store, m := newTestService(t, Settings{}, sampleSet()...)
	store.SaveErr = errors.New("permission denied")

	err := svc.DeleteItem(context.Background(), "I-0001")

	assert.True(t, IsWriteFailure(err))
	assert.Len(t, store.Records(), 3)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Mutations.WithLabelValues("delete", "error")))
}

func TestService_UpdateItem(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{Normalize: NormalizeOptions{Case: CaseLower, Trim: true}}, sampleSet()...)
	rec := sampleSet()[2]
	rec.SimilarID = " FAM-B"
	rec.Quantity = 8

	updated, err := svc.UpdateItem(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, "fam-b", updated.SimilarID)
	assert.Equal(t, 8, updated.Quantity)
	assert.Len(t, store.Records(), 3)

	_, err = svc.UpdateItem(context.Background(), models.Record{ID: "I-9999"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteItem(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)

	require.NoError(t, svc.DeleteItem(context.Background(), "I-0002"))

	full := sampleSet()
	assert.Equal(t, []models.Record{full[0], full[2]}, store.Records())
	assert.ErrorIs(t, svc.DeleteItem(context.Background(), "I-0002"), ErrNotFound)
}

func TestService_RefreshSeesExternalWrites(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{}, sampleSet()...)
	ctx := context.Background()

	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	// Another session replaced the persisted set.
	require.NoError(t, store.Save(ctx, sampleSet()[:1]))

	stale, _ := svc.Snapshot(ctx)
	assert.Len(t, stale, 3)

	fresh, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestService_UpdateSettings(t *testing.T) {
	svc, _, _ := newTestService(t, Settings{RefreshSeconds: 5})
	upper := CaseUpper
	yes := true
	negative := -1

	got := svc.UpdateSettings(SettingsPatch{Case: &upper, AllowDeleteFiltered: &yes, RefreshSeconds: &negative})

	assert.Equal(t, CaseUpper, got.Normalize.Case)
	assert.True(t, got.AllowDeleteFiltered)
	assert.Equal(t, 5, got.RefreshSeconds)
}

// gatedStore reads the persisted set, then parks the next Load until gate
// is closed, so the returned data is older than anything saved meanwhile.
type gatedStore struct {
	*storage.MemoryStore
	hold    atomic.Bool
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedStore) Load(ctx context.Context) ([]models.Record, error) {
	records, err := g.MemoryStore.Load(ctx)
	if g.hold.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.gate
	}
	return records, err
}

func TestService_SlowRefreshDoesNotRevertMutation(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{
		MemoryStore: storage.NewMemoryStore(sampleSet()...),
		entered:     make(chan struct{}),
		gate:        make(chan struct{}),
	}
	store.hold.Store(true)
	svc := NewService(store, Settings{}, nil)

	refreshed := make(chan struct{})
	go func() {
		svc.Refresh(ctx)
		close(refreshed)
	}()
	<-store.entered

	rec, err := svc.AddItem(ctx, Candidate{Description: "Crema", Location: "Almacén C"})
	require.NoError(t, err)

	close(store.gate)
	<-refreshed

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 4)
	assert.Equal(t, rec.ID, snap[3].ID)

	// Submitting the whole view back must not delete the new record.
	res, err := svc.ApplyEdits(ctx, snap, nil, Filter{})
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.Len(t, store.Records(), 4)
}

func snapshotLen(t *testing.T, svc *Service) int {
	t.Helper()
	snap, _ := svc.Snapshot(context.Background())
	return len(snap)
}

func TestService_RefresherPicksUpExternalWrites(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{RefreshSeconds: 1}, sampleSet()...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	done := svc.StartRefresher(ctx)

	// Another process appends a row behind this one's back.
	require.NoError(t, store.Save(ctx, append(sampleSet(), models.Record{ID: "I-0004", Description: "Crema", Location: "Almacén C"})))

	assert.Eventually(t, func() bool { return snapshotLen(t, svc) == 4 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh worker did not stop after cancel")
	}
}

func TestService_RefresherPausedAtZeroUntilIntervalSet(t *testing.T) {
	svc, store, _ := newTestService(t, Settings{RefreshSeconds: 0}, sampleSet()...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	done := svc.StartRefresher(ctx)

	require.NoError(t, store.Save(ctx, sampleSet()[:1]))

	assert.Never(t, func() bool { return snapshotLen(t, svc) != 3 }, 2500*time.Millisecond, 100*time.Millisecond)

	one := 1
	svc.UpdateSettings(SettingsPatch{RefreshSeconds: &one})

	assert.Eventually(t, func() bool { return snapshotLen(t, svc) == 1 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}
