package redis

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/logger"
)

// setupTestRedis creates a Redis client backed by miniredis.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func newGuard(client *redis.Client) *Guard {
	return NewGuard(client, time.Hour, logger.New(&bytes.Buffer{}, false))
}

func TestClaimIsExclusive(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := newGuard(client)
	ctx := context.Background()

	ok, err := g.Claim(ctx, "venues", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "venues", "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(ctx, "artists", "abc")
	require.NoError(t, err)
	assert.True(t, ok, "scopes are independent")

	assert.Equal(t, time.Hour, mr.TTL("idempotency:venues:abc"))

	_, err = g.Result(ctx, "venues", "abc")
	assert.ErrorIs(t, err, ErrInFlight)
}

func TestCompleteAndRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := newGuard(client)
	ctx := context.Background()

	_, err := g.Claim(ctx, "shows", "k1")
	require.NoError(t, err)
	require.NoError(t, g.Complete(ctx, "shows", "k1", StoredResponse{Status: 201, Body: []byte(`{"id":1}`)}))

	stored, err := g.Result(ctx, "shows", "k1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 201, stored.Status)
	assert.JSONEq(t, `{"id":1}`, string(stored.Body))

	require.NoError(t, g.Release(ctx, "shows", "k1"))
	assert.False(t, mr.Exists("idempotency:shows:k1"))

	stored, err = g.Result(ctx, "shows", "k1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestMiddlewareReplaysDuplicateSubmission(t *testing.T) {
	client, _ := setupTestRedis(t)
	g := newGuard(client)

	var calls int32
	handler := g.Middleware("venues")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"id":%d}`, n)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/venues", strings.NewReader(`{}`))
		req.Header.Set(HeaderKey, "form-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
}

func TestMiddlewareRejectsInFlightDuplicate(t *testing.T) {
	client, _ := setupTestRedis(t)
	g := newGuard(client)

	_, err := g.Claim(context.Background(), "artists", "busy")
	require.NoError(t, err)

	handler := g.Middleware("artists")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an in-flight key")
	}))
	req := httptest.NewRequest(http.MethodPost, "/artists", nil)
	req.Header.Set(HeaderKey, "busy")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_submission")
}

func TestMiddlewareReleasesOnServerError(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := newGuard(client)

	handler := g.Middleware("shows")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	req := httptest.NewRequest(http.MethodPost, "/shows", nil)
	req.Header.Set(HeaderKey, "retry-me")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, mr.Exists("idempotency:shows:retry-me"))
}

func TestMiddlewarePassesThroughWithoutKey(t *testing.T) {
	client, mr := setupTestRedis(t)
	g := newGuard(client)

	var calls int
	handler := g.Middleware("venues")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/venues", nil))
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestMiddlewareFailsOpenWhenRedisIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	g := newGuard(client)
	mr.Close()

	var calls int
	handler := g.Middleware("venues")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))
	req := httptest.NewRequest(http.MethodPost, "/venues", nil)
	req.Header.Set(HeaderKey, "k")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
