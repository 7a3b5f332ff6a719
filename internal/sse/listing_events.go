package sse

import (
	"context"
	"sync"

	"ms-booking/internal/models"
)

const clientBuffer = 16

// ListingEventEmitter fans listing events out to live subscribers.
// Subscribers registered under "" receive every entity kind.
type ListingEventEmitter struct {
	clients     map[string][]chan models.ListingEvent
	clientMutex sync.RWMutex
}

func NewListingEventEmitter() *ListingEventEmitter {
	return &ListingEventEmitter{
		clients: make(map[string][]chan models.ListingEvent),
	}
}

// Subscribe registers a client for entity ("venue", "artist", "show" or "" for all).
// The channel is closed once ctx is done.
func (e *ListingEventEmitter) Subscribe(ctx context.Context, entity string) <-chan models.ListingEvent {
	clientChan := make(chan models.ListingEvent, clientBuffer)

	e.clientMutex.Lock()
	e.clients[entity] = append(e.clients[entity], clientChan)
	e.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(entity, clientChan)
	}()

	return clientChan
}

// Publish broadcasts event without blocking; a client with a full buffer misses it.
func (e *ListingEventEmitter) Publish(_ context.Context, event models.ListingEvent) error {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, key := range []string{event.Entity, ""} {
		for _, clientChan := range e.clients[key] {
			select {
			case clientChan <- event:
			default:
			}
		}
	}
	return nil
}

func (e *ListingEventEmitter) removeClient(entity string, clientChan chan models.ListingEvent) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	clients := e.clients[entity]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[entity] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.clients[entity]) == 0 {
		delete(e.clients, entity)
	}
}

// ClientCount returns the number of clients subscribed under entity.
func (e *ListingEventEmitter) ClientCount(entity string) int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients[entity])
}
