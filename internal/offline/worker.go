package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/abhisek/mathquiz/internal/store"
)

// State is a worker lifecycle state.
type State int

const (
	StateNew State = iota
	StateInstalling
	StateInstalled
	StateActivating
	StateActivated
	StateRedundant
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	default:
		return "unknown"
	}
}

var (
	ErrNotInstalled = errors.New("worker is not installed")
	ErrRedundant    = errors.New("worker is redundant after a failed install")
)

// InstallError reports the precache entries that could not be fetched.
type InstallError struct {
	Failed map[string]error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("precache failed for %d of the manifest entries", len(e.Failed))
}

// Worker drives the install and activate lifecycle of a Router.
type Worker struct {
	router *Router

	mu    sync.Mutex
	state State
}

// NewWorker creates a worker and its inactive router.
func NewWorker(cfg Config, storage store.CacheStorage, opts ...Option) (*Worker, error) {
	r, err := NewRouter(cfg, storage, opts...)
	if err != nil {
		return nil, err
	}
	return &Worker{router: r}, nil
}

// Router returns the worker's router.
func (w *Worker) Router() *Router {
	return w.router
}

// State returns the lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Install fetches the precache manifest and writes every entry into the
// versioned store in one batch. Any failed or non-2xx fetch leaves the
// store untouched. The worker then reuses a complete store left by an
// earlier install of the same version, or becomes redundant.
func (w *Worker) Install(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateInstalled, StateActivated:
		return nil
	case StateRedundant:
		return ErrRedundant
	}
	w.state = StateInstalling

	r := w.router
	entries := make(map[string]*store.CachedResponse, len(r.cfg.Precache))
	failed := make(map[string]error)
	for _, path := range r.cfg.Precache {
		key, resp, err := w.precache(ctx, path)
		if err != nil {
			failed[path] = err
			continue
		}
		entries[key] = resp
	}
	if len(failed) > 0 {
		if ok, err := w.hasCompleteStore(ctx); err != nil {
			r.logger.Warn("check existing cache store", "store", r.storeKey, "error", err)
		} else if ok {
			w.state = StateInstalled
			r.logger.Warn("install failed, reusing existing cache store", "store", r.storeKey, "failed", len(failed))
			return nil
		}
		w.state = StateRedundant
		r.logger.Error("install failed", "store", r.storeKey, "failed", len(failed))
		return &InstallError{Failed: failed}
	}

	c, err := r.storage.Open(ctx, r.storeKey)
	if err == nil {
		err = c.PutAll(ctx, entries)
	}
	if err != nil {
		w.state = StateRedundant
		return fmt.Errorf("write precache: %w", err)
	}

	w.state = StateInstalled
	r.logger.Info("worker installed", "store", r.storeKey, "entries", len(entries))
	return nil
}

// hasCompleteStore reports whether the current store already holds every
// manifest entry.
func (w *Worker) hasCompleteStore(ctx context.Context) (bool, error) {
	r := w.router
	ok, err := r.storage.Has(ctx, r.storeKey)
	if err != nil || !ok {
		return false, err
	}
	c, err := r.storage.Open(ctx, r.storeKey)
	if err != nil {
		return false, err
	}
	keys, err := c.Keys(ctx)
	if err != nil {
		return false, err
	}

	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	for _, path := range r.cfg.Precache {
		_, key, err := w.manifestRequest(ctx, path)
		if err != nil {
			return false, err
		}
		if !have[key] {
			return false, nil
		}
	}
	return true, nil
}

// manifestRequest builds the install request for path and its store key.
func (w *Worker) manifestRequest(ctx context.Context, path string) (*http.Request, string, error) {
	r := w.router
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.originURL(path), nil)
	if err != nil {
		return nil, "", err
	}
	class := Classify(req, r.cfg.BankFile)
	key := r.cacheKey(req, class)
	if class == ClassQuestions {
		// Fetch the version-qualified URL so intermediate caches are bypassed.
		if req.URL, err = url.Parse(key); err != nil {
			return nil, "", err
		}
	}
	return req, key, nil
}

func (w *Worker) precache(ctx context.Context, path string) (string, *store.CachedResponse, error) {
	r := w.router
	req, key, err := w.manifestRequest(ctx, path)
	if err != nil {
		return "", nil, err
	}

	resp, err := r.fetchNetwork(ctx, req)
	if err != nil {
		return "", nil, err
	}
	if !isOK(resp.Status) {
		return "", nil, fmt.Errorf("HTTP %d for %s", resp.Status, req.URL)
	}
	return key, resp, nil
}

// Activate deletes every store other than the current one, then starts
// intercepting requests.
func (w *Worker) Activate(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateActivated:
		return nil
	case StateRedundant:
		return ErrRedundant
	case StateInstalled:
	default:
		return ErrNotInstalled
	}
	w.state = StateActivating

	r := w.router
	names, err := r.storage.Names(ctx)
	if err != nil {
		w.state = StateInstalled
		return fmt.Errorf("list cache stores: %w", err)
	}
	for _, name := range names {
		if name == r.storeKey {
			continue
		}
		if _, err := r.storage.Delete(ctx, name); err != nil {
			w.state = StateInstalled
			return fmt.Errorf("delete cache store %q: %w", name, err)
		}
		r.logger.Info("deleted stale cache store", "store", name)
	}

	r.active.Store(true)
	w.state = StateActivated
	r.logger.Info("worker activated", "store", r.storeKey)
	return nil
}

// Start installs and immediately activates the worker.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.Install(ctx); err != nil {
		return err
	}
	return w.Activate(ctx)
}

// Status is a point-in-time description of the worker.
type Status struct {
	Version string   `json:"version"`
	Store   string   `json:"store"`
	State   string   `json:"state"`
	Stores  []string `json:"stores"`
}

// Status describes the worker and the stores present in storage.
func (w *Worker) Status(ctx context.Context) (Status, error) {
	r := w.router
	names, err := r.storage.Names(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("list cache stores: %w", err)
	}
	return Status{
		Version: r.cfg.Version,
		Store:   r.storeKey,
		State:   w.State().String(),
		Stores:  SortStoreNames(r.cfg.Prefix, names),
	}, nil
}
