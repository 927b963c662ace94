package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTrigger struct {
	calls   atomic.Int32
	stopped atomic.Bool
}

func (c *countingTrigger) Trigger(context.Context) bool {
	if c.stopped.Load() {
		return false
	}
	c.calls.Add(1)
	return true
}

func setup(t *testing.T) (*tracker.Store, *countingTrigger, time.Time, http.Handler) {
	t.Helper()
	store := tracker.New()
	trigger := &countingTrigger{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	router := NewRouter(store, trigger, func() time.Time { return now }, nil)
	return store, trigger, now, router
}

func TestHealth(t *testing.T) {
	store, _, now, router := setup(t)
	store.RecordCartActive("42", now)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.TrackedUsers)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetInactivity_Tracked(t *testing.T) {
	store, _, now, router := setup(t)
	seen := now.Add(-90 * time.Second)
	store.RecordCartActive("42", seen)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inactivity/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp InactivityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Tracked)
	assert.Equal(t, int64(90), resp.InactivitySeconds)

	// peeking does not overwrite the observation
	last, ok := store.LastSeen("42")
	require.True(t, ok)
	assert.True(t, last.Equal(seen))
}

func TestGetInactivity_Unknown(t *testing.T) {
	_, _, _, router := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inactivity/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp InactivityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Tracked)
	assert.Nil(t, resp.LastSeen)
	assert.Zero(t, resp.InactivitySeconds)
}

func TestTriggerTick(t *testing.T) {
	_, trigger, _, router := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ticks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, int32(1), trigger.calls.Load())
}

func TestTriggerTick_WrongMethod(t *testing.T) {
	_, trigger, _, router := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ticks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, trigger.calls.Load())
}

func TestRequestIDMiddleware_KeepsIncomingID(t *testing.T) {
	_, _, _, router := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestTriggerTick_ShuttingDown(t *testing.T) {
	_, trigger, _, router := setup(t)
	trigger.stopped.Store(true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ticks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, trigger.calls.Load())
}
