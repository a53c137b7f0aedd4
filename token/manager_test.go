package token_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/token"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-wskey"
	testSecret = "test-secret"
	testScope  = "WMS_CIRCULATION WMS_Availability"
)

type tokenServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	body   atomic.Value
	delay  time.Duration
}

func newTokenServer(t *testing.T, body string) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.status.Store(http.StatusOK)
	ts.body.Store(body)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		if ts.delay > 0 {
			time.Sleep(ts.delay)
		}

		key, secret, ok := r.BasicAuth()
		if !ok || key != testKey || secret != testSecret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil ||
			r.PostForm.Get("grant_type") != "client_credentials" ||
			r.PostForm.Get("scope") != testScope {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(ts.status.Load()))
		_, _ = w.Write([]byte(ts.body.Load().(string)))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) credentials() token.Credentials {
	return token.Credentials{Key: testKey, Secret: testSecret, Scope: testScope, TokenURL: ts.URL}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func TestManager_Token(t *testing.T) {
	t.Run("fetches once then serves from cache", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_one","token_type":"bearer","expires_in":1199}`)
		clock := newClock()
		m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))

		tok, err := m.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tk_one", tok)

		tok, err = m.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tk_one", tok)
		require.EqualValues(t, 1, ts.hits.Load())

		_, expiresAt, ok := m.Cached()
		require.True(t, ok)
		require.Equal(t, clock.Now().Add(1199*time.Second-time.Minute), expiresAt)
	})

	t.Run("defaults expires_in to an hour", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_default","token_type":"bearer"}`)
		clock := newClock()
		m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))

		_, err := m.Token(context.Background())
		require.NoError(t, err)

		_, expiresAt, ok := m.Cached()
		require.True(t, ok)
		require.Equal(t, clock.Now().Add(time.Hour-time.Minute), expiresAt)
	})

	t.Run("non-positive expires_in is never reused", func(t *testing.T) {
		for _, body := range []string{
			`{"access_token":"tk_zero","expires_in":0}`,
			`{"access_token":"tk_negative","expires_in":-30}`,
			`{"access_token":"tk_text","expires_in":"0"}`,
		} {
			ts := newTokenServer(t, body)
			clock := newClock()
			m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))

			for i := 0; i < 2; i++ {
				_, err := m.Token(context.Background())
				require.NoError(t, err)
			}
			require.EqualValues(t, 2, ts.hits.Load(), body)

			_, expiresAt, ok := m.Cached()
			require.True(t, ok)
			require.Equal(t, clock.Now().Add(-time.Minute), expiresAt)
		}
	})

	t.Run("refreshes after expiry", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_one","expires_in":3600}`)
		clock := newClock()
		m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))

		_, err := m.Token(context.Background())
		require.NoError(t, err)

		clock.Advance(59 * time.Minute)
		ts.body.Store(`{"access_token":"tk_two","expires_in":3600}`)

		tok, err := m.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tk_two", tok)
		require.EqualValues(t, 2, ts.hits.Load())
	})
}

func TestManager_SafetyMargin(t *testing.T) {
	clock := newClock()

	t.Run("token beyond the margin makes no network call", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_network","expires_in":3600}`)
		m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))
		m.SetCached("tk_cached", clock.Now().Add(61*time.Second))

		tok, err := m.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tk_cached", tok)
		require.Zero(t, ts.hits.Load())
	})

	t.Run("expired token always refreshes", func(t *testing.T) {
		for _, expiresAt := range []time.Time{clock.Now(), clock.Now().Add(-time.Hour)} {
			ts := newTokenServer(t, `{"access_token":"tk_network","expires_in":3600}`)
			m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))
			m.SetCached("tk_stale", expiresAt)

			tok, err := m.Token(context.Background())
			require.NoError(t, err)
			require.Equal(t, "tk_network", tok)
			require.EqualValues(t, 1, ts.hits.Load())
		}
	})
}

func TestManager_Invalidate(t *testing.T) {
	ts := newTokenServer(t, `{"access_token":"tk_one","expires_in":3600}`)
	m := token.New(ts.credentials())

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	m.Invalidate()
	m.Invalidate()
	_, _, ok := m.Cached()
	require.False(t, ok)

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, ts.hits.Load())
}

func TestManager_Failure(t *testing.T) {
	t.Run("non-2xx leaves the cache untouched", func(t *testing.T) {
		clock := newClock()
		ts := newTokenServer(t, `{"error":"invalid_client"}`)
		ts.status.Store(http.StatusUnauthorized)

		m := token.New(ts.credentials(), token.WithNowFunc(clock.Now))
		staleExpiry := clock.Now().Add(-time.Second)
		m.SetCached("tk_stale", staleExpiry)

		_, err := m.Token(context.Background())
		require.Error(t, err)
		require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

		tok, expiresAt, ok := m.Cached()
		require.True(t, ok)
		require.Equal(t, "tk_stale", tok)
		require.Equal(t, staleExpiry, expiresAt)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_one"}`)
		creds := ts.credentials()
		creds.Secret = "wrong"

		_, err := token.New(creds).Token(context.Background())
		require.Error(t, err)
		require.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		ts := newTokenServer(t, `{"access_token":"tk_slow"}`)
		ts.delay = 200 * time.Millisecond

		m := token.New(ts.credentials(), token.WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
		_, err := m.Token(context.Background())
		require.Error(t, err)
		require.True(t, apperrors.IsTimeout(err))
	})
}

func TestManager_ConcurrentRefreshIsShared(t *testing.T) {
	ts := newTokenServer(t, `{"access_token":"tk_shared","expires_in":3600}`)
	ts.delay = 50 * time.Millisecond
	m := token.New(ts.credentials())

	var wg sync.WaitGroup
	tokens := make([]string, 10)
	errs := make([]error, 10)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i, tok := range tokens {
		require.NoError(t, errs[i])
		require.Equal(t, "tk_shared", tok)
	}
	require.EqualValues(t, 1, ts.hits.Load())
}

// The NCIP source never reuses a token; this asymmetry with Manager is intentional.
func TestUncached_AlwaysFetches(t *testing.T) {
	ts := newTokenServer(t, `{"access_token":"tk_ncip","expires_in":3600}`)
	u := token.NewUncached(ts.credentials())

	for i := 0; i < 3; i++ {
		tok, err := u.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tk_ncip", tok)
	}
	u.Invalidate()
	require.EqualValues(t, 3, ts.hits.Load())
}
