package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"keydoctor/db"
	"keydoctor/internal/credential"
	"keydoctor/internal/probe"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, "up", zap.NewNop().Sugar()))

	return NewStore(NewStoreParams{DB: conn, Logger: zap.NewNop().Sugar()})
}

func event(res probe.Result, at time.Time) probe.Event {
	ev := probe.NewEvent(credential.New("sk-ant-api03-history").Fingerprint(), res, 1500*time.Millisecond)
	ev.CreatedAt = at
	return ev
}

func TestStore_ObserveAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.ObserveProbe(ctx, event(probe.Success("API test successful!"), base)))
	require.NoError(t, s.ObserveProbe(ctx, event(probe.AuthFailure("401 invalid x-api-key"), base.Add(time.Minute))))
	require.NoError(t, s.ObserveProbe(ctx, event(probe.OtherFailure(probe.KindRateLimit, "429"), base.Add(2*time.Minute))))

	recs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, string(probe.OutcomeOtherFailure), recs[0].Outcome)
	assert.Equal(t, probe.KindRateLimit, recs[0].ErrorKind)
	assert.Equal(t, string(probe.OutcomeAuthFailure), recs[1].Outcome)
	assert.Equal(t, probe.KindAuthentication, recs[1].ErrorKind)
	assert.Equal(t, int64(1500), recs[1].DurationMS)
	assert.Equal(t, probe.Model, recs[1].Model)
	assert.Equal(t, base.Add(time.Minute), recs[1].CreatedAt())
}

func TestStore_NeverStoresTheKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ObserveProbe(ctx, event(probe.Success("ok"), time.Now())))

	recs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0].Fingerprint, "sk-ant")
	assert.Len(t, recs[0].Fingerprint, 12)
}

func TestStore_RejectsInvalidRecord(t *testing.T) {
	s := newTestStore(t)

	ev := event(probe.Success("ok"), time.Now())
	ev.Fingerprint = "not-a-fingerprint"

	require.Error(t, s.ObserveProbe(context.Background(), ev))
}

func TestStore_Disabled(t *testing.T) {
	s := NewStore(NewStoreParams{})
	assert.False(t, s.Enabled())

	require.NoError(t, s.ObserveProbe(context.Background(), event(probe.Success("ok"), time.Now())))

	_, err := s.Recent(context.Background(), 10)
	require.True(t, IsDisabled(err))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}
