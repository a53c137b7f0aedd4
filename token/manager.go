package token

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// snapshot is never modified after it is published.
type snapshot struct {
	accessToken string
	expiresAt   time.Time
}

type options struct {
	client  *http.Client
	nowFunc func() time.Time
	margin  time.Duration
}

type Option func(*options)

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = now
	}
}

func WithSafetyMargin(margin time.Duration) Option {
	return func(o *options) {
		o.margin = margin
	}
}

func newOptions(opts []Option) options {
	o := options{margin: DefaultSafetyMargin}
	for _, opt := range opts {
		opt(&o)
	}
	if o.nowFunc == nil {
		o.nowFunc = time.Now
	}
	return o
}

// Manager caches one client credentials token for the whole process. Readers load an
// immutable snapshot; refresh and Invalidate swap the pointer.
type Manager struct {
	creds     Credentials
	opts      options
	current   atomic.Pointer[snapshot]
	refreshes singleflight.Group
}

func New(creds Credentials, opts ...Option) *Manager {
	return &Manager{
		creds: creds,
		opts:  newOptions(opts),
	}
}

// Token returns the cached token while it is still inside its lifetime, otherwise it
// requests a new one. Concurrent callers share a single refresh.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	v, err, _ := m.refreshes.Do("token", func() (interface{}, error) {
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token. It is safe to call at any time.
func (m *Manager) Invalidate() {
	m.current.Store(nil)
}

func (m *Manager) cached() (string, bool) {
	snap := m.current.Load()
	if snap == nil || !m.opts.nowFunc().Before(snap.expiresAt) {
		return "", false
	}
	return snap.accessToken, true
}

// refresh stores a new snapshot only on success so a failed request leaves the cache as it was.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	accessToken, lifetime, err := m.creds.fetch(ctx, m.opts.client, "cached")
	if err != nil {
		return "", err
	}
	m.current.Store(&snapshot{
		accessToken: accessToken,
		expiresAt:   m.opts.nowFunc().Add(lifetime - m.opts.margin),
	})
	return accessToken, nil
}
