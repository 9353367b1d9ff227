package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/store"
)

// SourceHeader names where a routed response came from: network, cache
// or offline.
const SourceHeader = "X-Offline-Source"

const (
	SourceNetwork = "network"
	SourceCache   = "cache"
	SourceOffline = "offline"
)

// DefaultPrefix is the store name prefix.
const DefaultPrefix = "math-quiz"

// DefaultNetworkTimeout bounds network-first fetches.
const DefaultNetworkTimeout = 4 * time.Second

// maxBodyBytes caps captured response bodies.
const maxBodyBytes = 32 << 20

// ErrBodyTooLarge is returned when an upstream body exceeds the capture limit.
var ErrBodyTooLarge = errors.New("response body too large to cache")

// FetchError wraps an upstream failure for one URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config configures a Router and its Worker.
type Config struct {
	// Origin is the scheme and host whose requests are intercepted.
	Origin *url.URL

	// Version is the cache version token, e.g. "v6".
	Version string

	// Prefix of the store name. Default: DefaultPrefix.
	Prefix string

	// NetworkTimeout bounds network-first fetches. Default: DefaultNetworkTimeout.
	NetworkTimeout time.Duration

	// BankFile is the question bank filename. Default: questions.DefaultBankFile.
	BankFile string

	// Precache lists the origin paths fetched on install. Default: DefaultPrecache.
	Precache []string
}

// DefaultPrecache returns the install manifest for bankFile.
func DefaultPrecache(bankFile string) []string {
	paths := append([]string{}, ShellPaths...)
	return append(paths,
		"/"+bankFile,
		"/icons/icon-192.png",
		"/icons/icon-512.png",
	)
}

func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.NetworkTimeout <= 0 {
		c.NetworkTimeout = DefaultNetworkTimeout
	}
	if c.BankFile == "" {
		c.BankFile = questions.DefaultBankFile
	}
	if len(c.Precache) == 0 {
		c.Precache = DefaultPrecache(c.BankFile)
	}
	return c
}

// Option configures a Router.
type Option func(*Router)

// WithTransport sets the upstream transport. Default: http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(r *Router) { r.upstream = rt }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// Router routes same-origin GET requests through a versioned cache store.
// It implements http.RoundTripper and is safe for concurrent use.
//
// Until the owning Worker activates it, every request passes straight
// through to the upstream transport.
type Router struct {
	cfg      Config
	storeKey string
	storage  store.CacheStorage
	upstream http.RoundTripper
	logger   *slog.Logger
	active   atomic.Bool
}

var _ http.RoundTripper = (*Router)(nil)

// NewRouter creates an inactive router.
func NewRouter(cfg Config, storage store.CacheStorage, opts ...Option) (*Router, error) {
	if cfg.Origin == nil || cfg.Origin.Host == "" {
		return nil, errors.New("offline router: origin is required")
	}
	version, err := NormalizeVersion(cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("offline router: %w", err)
	}
	cfg.Version = version
	cfg = cfg.withDefaults()

	r := &Router{
		cfg:      cfg,
		storeKey: StoreName(cfg.Prefix, cfg.Version),
		storage:  storage,
		upstream: http.DefaultTransport,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// StoreName returns the name of the active store.
func (r *Router) StoreName() string {
	return r.storeKey
}

// Config returns the effective configuration.
func (r *Router) Config() Config {
	return r.cfg
}

// Active reports whether requests are intercepted.
func (r *Router) Active() bool {
	return r.active.Load()
}

// RoundTrip implements http.RoundTripper.
func (r *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	return r.Fetch(req.Context(), req)
}

// Fetch routes req. Intercepted requests never fail: when both the network
// and the cache miss, a synthetic offline response is returned.
func (r *Router) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	if !r.intercepts(req) {
		return r.upstream.RoundTrip(req.WithContext(ctx))
	}

	class := Classify(req, r.cfg.BankFile)
	switch class {
	case ClassQuestions, ClassAppShell:
		return r.networkFirst(ctx, req, class), nil
	default:
		return r.cacheFirst(ctx, req), nil
	}
}

func (r *Router) intercepts(req *http.Request) bool {
	if !r.active.Load() || req.Method != http.MethodGet {
		return false
	}
	return req.URL.Scheme == r.cfg.Origin.Scheme && req.URL.Host == r.cfg.Origin.Host
}

// cacheKey is the store key for req. Question data is keyed by its
// version-qualified URL.
func (r *Router) cacheKey(req *http.Request, class Class) string {
	if class != ClassQuestions {
		return req.URL.String()
	}
	key, err := WithVersion(req.URL.String(), r.cfg.Version)
	if err != nil {
		return req.URL.String()
	}
	return key
}

func (r *Router) networkFirst(ctx context.Context, req *http.Request, class Class) *http.Response {
	key := r.cacheKey(req, class)

	tctx, cancel := context.WithTimeout(ctx, r.cfg.NetworkTimeout)
	captured, err := r.fetchNetwork(tctx, req)
	cancel()
	if err == nil {
		if isOK(captured.Status) {
			r.put(ctx, key, captured)
		}
		return toResponse(req, captured, SourceNetwork)
	}

	r.logger.Debug("network failed, using cache", "url", req.URL.String(), "class", class.String(), "error", err)
	if cached := r.match(ctx, key); cached != nil {
		return toResponse(req, cached, SourceCache)
	}
	return r.fallback(ctx, req)
}

func (r *Router) cacheFirst(ctx context.Context, req *http.Request) *http.Response {
	key := r.cacheKey(req, ClassOther)
	if cached := r.match(ctx, key); cached != nil {
		return toResponse(req, cached, SourceCache)
	}

	captured, err := r.fetchNetwork(ctx, req)
	if err != nil {
		r.logger.Debug("cache miss and network failed", "url", req.URL.String(), "error", err)
		return r.fallback(ctx, req)
	}
	if isOK(captured.Status) {
		r.put(ctx, key, captured)
	}
	return toResponse(req, captured, SourceNetwork)
}

// fallback serves the cached app-shell document for navigations and the
// synthetic offline response otherwise.
func (r *Router) fallback(ctx context.Context, req *http.Request) *http.Response {
	if IsNavigation(req) {
		if shell := r.match(ctx, r.originURL("/index.html")); shell != nil {
			return toResponse(req, shell, SourceCache)
		}
	}
	r.logger.Info("serving offline response", "url", req.URL.String())
	return OfflineResponse(req)
}

func (r *Router) originURL(path string) string {
	u := *r.cfg.Origin
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func (r *Router) match(ctx context.Context, key string) *store.CachedResponse {
	c, err := r.storage.Open(ctx, r.storeKey)
	if err != nil {
		r.logger.Warn("open cache store", "store", r.storeKey, "error", err)
		return nil
	}
	resp, err := c.Match(ctx, key)
	if err != nil {
		r.logger.Warn("cache lookup", "key", key, "error", err)
		return nil
	}
	return resp
}

// put writes a captured response. Failures are logged and never surface
// to the caller.
func (r *Router) put(ctx context.Context, key string, resp *store.CachedResponse) {
	c, err := r.storage.Open(ctx, r.storeKey)
	if err == nil {
		err = c.Put(ctx, key, resp)
	}
	if err != nil {
		r.logger.Warn("cache write", "key", key, "error", err)
	}
}

// fetchNetwork performs req upstream and captures the whole response.
func (r *Router) fetchNetwork(ctx context.Context, req *http.Request) (*store.CachedResponse, error) {
	out := req.Clone(ctx)
	out.Header.Del(SourceHeader)

	resp, err := r.upstream.RoundTrip(out)
	if err != nil {
		return nil, &FetchError{URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: req.URL.String(), Err: err}
	}
	if len(body) > maxBodyBytes {
		return nil, &FetchError{URL: req.URL.String(), Err: ErrBodyTooLarge}
	}

	return &store.CachedResponse{
		URL:      req.URL.String(),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

func toResponse(req *http.Request, c *store.CachedResponse, source string) *http.Response {
	header := c.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(SourceHeader, source)
	header.Set("Content-Length", strconv.Itoa(len(c.Body)))
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", c.Status, http.StatusText(c.Status)),
		StatusCode:    c.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(c.Body)),
		ContentLength: int64(len(c.Body)),
		Request:       req,
	}
}

// OfflineResponse is the synthetic response for a total miss.
func OfflineResponse(req *http.Request) *http.Response {
	return toResponse(req, &store.CachedResponse{
		URL:    req.URL.String(),
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   []byte("Offline"),
	}, SourceOffline)
}
