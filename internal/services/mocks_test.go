package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	c "dashboard/internal/cache"
	"dashboard/internal/events"
	"dashboard/internal/messaging"
	"dashboard/internal/models"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

// --- Mock Cache ---

type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	pingErr error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: map[string][]byte{}}
}

func (m *MockCache) RegisterPlatform(_ string) error           { return nil }
func (m *MockCache) DeleteInactivePlatform() error             { return nil }
func (m *MockCache) CountActivePlatforms() (int64, error)      { return 2, nil }
func (m *MockCache) StartIdentityTicker(_ string)              {}
func (m *MockCache) GetRateLimit(_ string, _ int) (int, error) { return 0, nil }
func (m *MockCache) TryAcquireLock(_, _ string, _ int) (bool, error) {
	return true, nil
}
func (m *MockCache) RefreshLock(_, _ string, _ int) (bool, error) { return true, nil }
func (m *MockCache) Ping(_ context.Context) error                 { return m.pingErr }
func (m *MockCache) Close() error                                 { return nil }

func (m *MockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, c.ErrCacheMiss
	}
	return value, nil
}

func (m *MockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *MockCache) DeleteByPattern(_ context.Context, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = map[string][]byte{}
	return n, nil
}

func (m *MockCache) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	return keys
}

var _ c.ICache = (*MockCache)(nil)

// --- Mock Activity Logger ---

type MockActivityLogger struct {
	criteria map[string][]string
	days     int
	err      error
}

func (m *MockActivityLogger) Send(_ models.Activity) error { return nil }
func (m *MockActivityLogger) Search(criteria map[string][]string, days int) ([]map[string]any, error) {
	m.criteria, m.days = criteria, days
	if m.err != nil {
		return nil, m.err
	}
	return []map[string]any{{"action": "create"}}, nil
}
func (m *MockActivityLogger) CountByDay(criteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	m.criteria, m.days = criteria, days
	return []models.TimeSeriesPoint{{Date: "2025-03-15", Count: 4}}, nil
}
func (m *MockActivityLogger) DeleteOlderThan(_ time.Time) (int, error) { return 0, nil }
func (m *MockActivityLogger) Close() error                             { return nil }

var _ activity.IActivityLogger = (*MockActivityLogger)(nil)

// --- Capture Publisher ---

type capturePublisher struct {
	mu       sync.Mutex
	payloads []events.ActivityPayload
}

func (p *capturePublisher) Publish(msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, msg := range msgs {
		var payload events.ActivityPayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			p.payloads = append(p.payloads, payload)
		}
	}
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.payloads))
	for i, payload := range p.payloads {
		out[i] = payload.Activity.Message
	}
	return out
}

var _ messaging.IPublisher = (*capturePublisher)(nil)

// --- Fake Backend ---

type fakeBackend struct {
	mux *http.ServeMux

	mu       sync.Mutex
	calls    map[string]int
	requests map[string]*http.Request
}

func newFakeBackend(t *testing.T) (*fakeBackend, *backend.Client) {
	t.Helper()
	fake := &fakeBackend{
		mux:      http.NewServeMux(),
		calls:    map[string]int{},
		requests: map[string]*http.Request{},
	}
	server := httptest.NewServer(fake.mux)
	t.Cleanup(server.Close)
	return fake, backend.NewClient(models.BackendConfiguration{BaseURL: server.URL, TimeoutSeconds: 5})
}

// handle registers an exact-path JSON responder for method and path.
func (f *fakeBackend) handle(method, path string, status int, payload any) {
	f.mux.HandleFunc(method+" "+path+"{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[path]++
		f.requests[path] = r
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	})
}

func (f *fakeBackend) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeBackend) lastRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[path]
	require.True(t, ok, "no request recorded for %s", path)
	return r
}

// --- Fixtures ---

func testSettings() Settings {
	return Settings{Locale: "it", Location: time.UTC, DefaultPageSize: 10}
}

func adminSession() models.Session {
	return models.Session{
		User:         models.UserInfo{ID: 1, Username: "admin", Role: models.RoleAdmin},
		BackendToken: "admin-token",
		Locale:       "en",
	}
}

func sharerSession() models.Session {
	return models.Session{
		User:         models.UserInfo{ID: 7, Username: "studio", Role: models.RoleSharer},
		BackendToken: "sharer-token",
		Locale:       "it",
	}
}

func viewerSession() models.Session {
	return models.Session{
		User:         models.UserInfo{ID: 42, Username: "cliente", Role: models.RoleViewer},
		BackendToken: "viewer-token",
		Locale:       "it",
	}
}

// withSession serves router as if the Authenticate middleware had run.
func withSession(router http.Handler, session models.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), models.SessionKey{}, session)
		router.ServeHTTP(w, r.WithContext(ctx))
	})
}

func day(value string) models.Date {
	d, err := models.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }
