package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booking/internal/logger"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	pendingMarker = "pending"
	maxStoredBody = 64 << 10
)

var ErrInFlight = errors.New("request with this idempotency key is still in progress")

// StoredResponse is what a completed submission replays.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Guard deduplicates form submissions that carry an Idempotency-Key header.
type Guard struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewGuard(client *redis.Client, ttl time.Duration, log *logger.Logger) *Guard {
	return &Guard{Client: client, TTL: ttl, Logger: log}
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Claim returns true when the caller is the first to use key within scope.
func (g *Guard) Claim(ctx context.Context, scope, key string) (bool, error) {
	return g.Client.SetNX(ctx, redisKey(scope, key), pendingMarker, g.TTL).Result()
}

// Complete stores the response for replay until the TTL runs out.
func (g *Guard) Complete(ctx context.Context, scope, key string, resp StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return g.Client.Set(ctx, redisKey(scope, key), data, g.TTL).Err()
}

// Release forgets key so the submission can be retried.
func (g *Guard) Release(ctx context.Context, scope, key string) error {
	return g.Client.Del(ctx, redisKey(scope, key)).Err()
}

// Result returns the stored response, ErrInFlight while the first request runs,
// or (nil, nil) when the key is unknown.
func (g *Guard) Result(ctx context.Context, scope, key string) (*StoredResponse, error) {
	val, err := g.Client.Get(ctx, redisKey(scope, key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if val == pendingMarker {
		return nil, ErrInFlight
	}
	var resp StoredResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, nil
}

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len()+len(b) <= maxStoredBody {
		cw.buf.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

// Middleware replays the first response for a repeated Idempotency-Key and
// rejects a repeat that arrives while the first is still running.
// Requests without the header pass through. Redis errors fail open.
func (g *Guard) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			claimed, err := g.Claim(ctx, scope, key)
			if err != nil {
				g.Logger.Warn("REDIS", fmt.Sprintf("Idempotency claim failed for %s: %v", scope, err))
				next.ServeHTTP(w, r)
				return
			}

			if !claimed {
				stored, err := g.Result(ctx, scope, key)
				switch {
				case errors.Is(err, ErrInFlight):
					writeConflict(w, err.Error())
				case err != nil:
					g.Logger.Warn("REDIS", fmt.Sprintf("Idempotency lookup failed for %s: %v", scope, err))
					writeConflict(w, "duplicate submission")
				case stored == nil:
					writeConflict(w, "duplicate submission")
				default:
					g.Logger.Info("REDIS", fmt.Sprintf("Replaying %s response for key %s", scope, key))
					if stored.ContentType != "" {
						w.Header().Set("Content-Type", stored.ContentType)
					}
					w.Header().Set(HeaderReplayed, "true")
					w.WriteHeader(stored.Status)
					w.Write(stored.Body)
				}
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			// Server errors are not cached so the client can retry.
			if cw.status >= http.StatusInternalServerError {
				if err := g.Release(context.Background(), scope, key); err != nil {
					g.Logger.Warn("REDIS", fmt.Sprintf("Idempotency release failed: %v", err))
				}
				return
			}
			resp := StoredResponse{
				Status:      cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.buf.Bytes(),
			}
			if err := g.Complete(context.Background(), scope, key, resp); err != nil {
				g.Logger.Warn("REDIS", fmt.Sprintf("Idempotency store failed: %v", err))
			}
		})
	}
}

func writeConflict(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	json.NewEncoder(w).Encode(map[string]string{"error": "duplicate_submission", "message": message})
}
