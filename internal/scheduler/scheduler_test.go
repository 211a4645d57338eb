package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/growthplot/strategy-agent/internal/models"
	"github.com/growthplot/strategy-agent/internal/store"
)

type fakeGenerator struct {
	calls  []string
	failOn map[string]error
}

func (f *fakeGenerator) Generate(_ context.Context, profile models.BusinessProfile) (*models.Strategy, error) {
	f.calls = append(f.calls, profile.Name)
	if err, ok := f.failOn[profile.Name]; ok {
		return nil, err
	}
	return &models.Strategy{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary:     "refreshed",
		GrowthScore: 40,
	}, nil
}

type fakeStore struct {
	stale      []store.StaleBusiness
	listErr    error
	saveErr    map[string]error
	saved      []string
	gotLimits  []int
	gotEmails  []string
	gotOlderBy []time.Duration
}

func (f *fakeStore) ListStale(_ context.Context, olderThan time.Duration, limit int) ([]store.StaleBusiness, error) {
	f.gotOlderBy = append(f.gotOlderBy, olderThan)
	f.gotLimits = append(f.gotLimits, limit)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.stale) > limit {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeStore) SaveGeneration(_ context.Context, _ *models.Strategy, profile models.BusinessProfile, _, email string) error {
	f.gotEmails = append(f.gotEmails, email)
	if err, ok := f.saveErr[profile.Name]; ok {
		return err
	}
	f.saved = append(f.saved, profile.Name)
	return nil
}

func staleBusiness(name string) store.StaleBusiness {
	return store.StaleBusiness{
		BusinessID: 1,
		OwnerID:    "owner-1",
		Profile: models.BusinessProfile{
			Name: name, Industry: "i", Niche: "n", Audience: "a", Goals: "g", Challenges: "c",
		},
	}
}

func newTestScheduler(gen *fakeGenerator, st *fakeStore) *Scheduler {
	return New(gen, st, 7*24*time.Hour, 5, zap.NewNop())
}

func TestRunScheduledRefreshesAll(t *testing.T) {
	gen := &fakeGenerator{}
	st := &fakeStore{stale: []store.StaleBusiness{staleBusiness("A"), staleBusiness("B")}}

	newTestScheduler(gen, st).RunScheduled(context.Background())

	assert.Equal(t, []string{"A", "B"}, gen.calls)
	assert.Equal(t, []string{"A", "B"}, st.saved)
	assert.Equal(t, []int{0}, st.gotLimits, "scheduled runs are unbounded")
	assert.Equal(t, []time.Duration{7 * 24 * time.Hour}, st.gotOlderBy)
	assert.Equal(t, []string{"cron-update@system.local", "cron-update@system.local"}, st.gotEmails)
}

func TestRunScheduledIsolatesFailures(t *testing.T) {
	// The second business fails to generate; the third must still be
	// processed and the run must not panic or abort.
	gen := &fakeGenerator{failOn: map[string]error{"B": errors.New("model blew up")}}
	st := &fakeStore{stale: []store.StaleBusiness{staleBusiness("A"), staleBusiness("B"), staleBusiness("C")}}

	newTestScheduler(gen, st).RunScheduled(context.Background())

	assert.Equal(t, []string{"A", "B", "C"}, gen.calls)
	assert.Equal(t, []string{"A", "C"}, st.saved)
}

func TestRunScheduledIsolatesSaveFailures(t *testing.T) {
	gen := &fakeGenerator{}
	st := &fakeStore{
		stale:   []store.StaleBusiness{staleBusiness("A"), staleBusiness("B")},
		saveErr: map[string]error{"A": &store.PersistenceError{Op: "commit", Err: errors.New("disk full")}},
	}

	newTestScheduler(gen, st).RunScheduled(context.Background())

	assert.Equal(t, []string{"B"}, st.saved)
	assert.Equal(t, []string{"A", "B"}, gen.calls)
}

func TestRunScheduledListFailure(t *testing.T) {
	gen := &fakeGenerator{}
	st := &fakeStore{listErr: errors.New("db unavailable")}

	// Must not panic; nothing to process.
	newTestScheduler(gen, st).RunScheduled(context.Background())
	assert.Empty(t, gen.calls)
}

func TestRunManualBoundedBatch(t *testing.T) {
	gen := &fakeGenerator{}
	st := &fakeStore{stale: []store.StaleBusiness{
		staleBusiness("A"), staleBusiness("B"), staleBusiness("C"),
		staleBusiness("D"), staleBusiness("E"), staleBusiness("F"),
	}}

	count, err := newTestScheduler(gen, st).RunManual(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, []int{5}, st.gotLimits)
	assert.Equal(t, "manual-update@system.local", st.gotEmails[0])
}

func TestRunManualCountsAttemptsNotSuccesses(t *testing.T) {
	gen := &fakeGenerator{failOn: map[string]error{"A": errors.New("boom")}}
	st := &fakeStore{stale: []store.StaleBusiness{staleBusiness("A"), staleBusiness("B")}}

	count, err := newTestScheduler(gen, st).RunManual(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"B"}, st.saved)
}

func TestRunManualListFailure(t *testing.T) {
	st := &fakeStore{listErr: errors.New("db unavailable")}
	_, err := newTestScheduler(&fakeGenerator{}, st).RunManual(context.Background())
	assert.Error(t, err)
}

func TestStartIsIdempotent(t *testing.T) {
	s := newTestScheduler(&fakeGenerator{}, &fakeStore{})
	defer s.Stop()

	s.Start()
	s.Start()
	s.Start()

	assert.Len(t, s.cron.Entries(), 1, "duplicate Start calls must not register extra timers")
}
