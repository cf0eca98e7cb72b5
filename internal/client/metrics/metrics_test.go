package metrics

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()
	samples, err := r.Snapshot()
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name == name && assert.ObjectsAreEqual(labels, s.Labels) {
			return s.Value
		}
	}
	return 0
}

func TestRecorder_CountsRequests(t *testing.T) {
	r := NewRecorder()

	r.ObserveRequest("GET", "ok", 10*time.Millisecond)
	r.ObserveRequest("GET", "ok", 20*time.Millisecond)
	r.ObserveRequest("POST", "unauthorized", time.Millisecond)

	assert.Equal(t, 2.0, value(t, r, "skillshare_client_requests_total", map[string]string{"method": "GET", "kind": "ok"}))
	assert.Equal(t, 1.0, value(t, r, "skillshare_client_requests_total", map[string]string{"method": "POST", "kind": "unauthorized"}))
	assert.Equal(t, 2.0, value(t, r, "skillshare_client_request_duration_seconds_count", map[string]string{"method": "GET"}))
}

func TestRecorder_CountsOptimisticOutcomes(t *testing.T) {
	r := NewRecorder()

	r.ObserveOptimistic("notifications", "update", optimistic.OutcomeConfirmed)
	r.ObserveOptimistic("notifications", "update", optimistic.OutcomeRolledBack)
	r.ObserveOptimistic("notifications", "update", optimistic.OutcomeRolledBack)

	assert.Equal(t, 2.0, value(t, r, "skillshare_client_optimistic_total",
		map[string]string{"collection": "notifications", "op": "update", "outcome": "rolled_back"}))
}

func TestRecorder_Snapshot(t *testing.T) {
	r := NewRecorder()
	r.ObserveRequest("PUT", "ok", time.Millisecond)
	r.ObserveOptimistic("posts", "update", optimistic.OutcomeConfirmed)

	samples, err := r.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, []Sample{
		{Name: "skillshare_client_optimistic_total", Labels: map[string]string{"collection": "posts", "op": "update", "outcome": "confirmed"}, Value: 1},
		{Name: "skillshare_client_request_duration_seconds_count", Labels: map[string]string{"method": "PUT"}, Value: 1},
		{Name: "skillshare_client_requests_total", Labels: map[string]string{"method": "PUT", "kind": "ok"}, Value: 1},
	}, samples)
}

func TestRecorder_PrivateRegistry(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveRequest("GET", "ok", 0)

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}
