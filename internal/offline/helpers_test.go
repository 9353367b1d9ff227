package offline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquiz/internal/store"
)

var errOffline = errors.New("dial tcp: connection refused")

// testOrigin is a static origin whose reachability can be switched off.
type testOrigin struct {
	srv  *httptest.Server
	down atomic.Bool

	mu    sync.Mutex
	files map[string]string
	hits  map[string]int
	delay time.Duration
}

func newTestOrigin(t *testing.T) *testOrigin {
	t.Helper()
	o := &testOrigin{
		files: map[string]string{
			"/":                   "<html>root</html>",
			"/index.html":         "<html>index</html>",
			"/styles.css":         "body{}",
			"/app.js":             "app",
			"/src/app.js":         "src app",
			"/manifest.json":      "{}",
			"/questions.json":     `[{"question":"2+2?","options":["3","4","5"],"answer":1}]`,
			"/icons/icon-192.png": "png192",
			"/icons/icon-512.png": "png512",
		},
		hits: make(map[string]int),
	}
	o.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.mu.Lock()
		body, ok := o.files[r.URL.Path]
		o.hits[r.URL.Path]++
		delay := o.delay
		o.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(o.srv.Close)
	return o
}

func (o *testOrigin) set(path, body string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[path] = body
}

func (o *testOrigin) remove(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.files, path)
}

func (o *testOrigin) setDelay(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delay = d
}

func (o *testOrigin) hitCount(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hits[path]
}

func (o *testOrigin) url(path string) string {
	return o.srv.URL + path
}

// RoundTrip fails like an unreachable host while the origin is down.
func (o *testOrigin) RoundTrip(req *http.Request) (*http.Response, error) {
	if o.down.Load() {
		return nil, errOffline
	}
	return http.DefaultTransport.RoundTrip(req)
}

func newTestWorker(t *testing.T, o *testOrigin, storage store.CacheStorage, version string) *Worker {
	t.Helper()
	origin, err := url.Parse(o.srv.URL)
	require.NoError(t, err)
	w, err := NewWorker(Config{
		Origin:         origin,
		Version:        version,
		NetworkTimeout: 200 * time.Millisecond,
	}, storage, WithTransport(o))
	require.NoError(t, err)
	return w
}

// startedRouter returns an activated router over a fresh memory storage.
func startedRouter(t *testing.T, o *testOrigin) (*Router, store.CacheStorage) {
	t.Helper()
	storage := store.NewMemory()
	w := newTestWorker(t, o, storage, "v6")
	require.NoError(t, w.Start(context.Background()))
	return w.Router(), storage
}

type fetched struct {
	status int
	body   string
	source string
}

func get(t *testing.T, rt http.RoundTripper, target string, header ...string) fetched {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return fetched{status: resp.StatusCode, body: string(body), source: resp.Header.Get(SourceHeader)}
}
