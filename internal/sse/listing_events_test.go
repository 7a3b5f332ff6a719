package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/models"
)

func receive(t *testing.T, ch <-chan models.ListingEvent) models.ListingEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.ListingEvent{}
	}
}

func TestPublishRoutesByEntity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e := NewListingEventEmitter()

	venues := e.Subscribe(ctx, "venue")
	all := e.Subscribe(ctx, "")

	require.NoError(t, e.Publish(ctx, models.ListingEvent{Entity: "artist", EntityID: 4, Action: models.ActionCreated}))
	require.NoError(t, e.Publish(ctx, models.ListingEvent{Entity: "venue", EntityID: 1, Action: models.ActionUpdated}))

	assert.Equal(t, int64(1), receive(t, venues).EntityID)
	assert.Equal(t, int64(4), receive(t, all).EntityID)
	assert.Equal(t, int64(1), receive(t, all).EntityID)
	assert.Empty(t, venues)
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e := NewListingEventEmitter()
	ch := e.Subscribe(ctx, "show")

	for i := 0; i < clientBuffer+5; i++ {
		require.NoError(t, e.Publish(ctx, models.ListingEvent{Entity: "show", EntityID: int64(i)}))
	}

	assert.Len(t, ch, clientBuffer)
}

func TestCancelRemovesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewListingEventEmitter()
	ch := e.Subscribe(ctx, "venue")
	assert.Equal(t, 1, e.ClientCount("venue"))

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
	assert.Equal(t, 0, e.ClientCount("venue"))
	assert.NoError(t, e.Publish(context.Background(), models.ListingEvent{Entity: "venue"}))
}
