package tokenfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-library-checkin/token"
)

var _ token.Source = (*FakeSource)(nil)

// FakeSource returns a fixed token and counts calls.
type FakeSource struct {
	AccessToken string
	Err         error

	lock          sync.Mutex
	calls         int
	invalidations int
}

func NewFakeSource(accessToken string) *FakeSource {
	return &FakeSource{AccessToken: accessToken}
}

func (f *FakeSource) Token(ctx context.Context) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls++
	if f.Err != nil {
		return "", f.Err
	}
	return f.AccessToken, nil
}

func (f *FakeSource) Invalidate() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.invalidations++
}

func (f *FakeSource) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

func (f *FakeSource) Invalidations() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.invalidations
}
