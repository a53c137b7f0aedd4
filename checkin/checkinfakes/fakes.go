package checkinfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-library-checkin/checkin"
	"github.com/jrsteele09/go-library-checkin/holdings"
	"github.com/jrsteele09/go-library-checkin/ncip"
)

var (
	_ checkin.Resolver            = (*FakeResolver)(nil)
	_ checkin.AvailabilityChecker = (*FakeAvailability)(nil)
	_ checkin.CheckInClient       = (*FakeCheckIn)(nil)
	_ checkin.UsageRecorder       = (*FakeUsage)(nil)
	_ checkin.Invalidator         = (*FakeInvalidator)(nil)
)

// calls counts invocations and hands out queued errors, one per call.
type calls struct {
	lock   sync.Mutex
	count  int
	errs   []error
	always error
}

func (c *calls) next() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.count++
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return err
	}
	return c.always
}

func (c *calls) Calls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.count
}

// FailNext queues errors returned by the next calls, in order.
func (c *calls) FailNext(errs ...error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.errs = append(c.errs, errs...)
}

// FailAlways makes every call without a queued error return err.
func (c *calls) FailAlways(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.always = err
}

type FakeResolver struct {
	calls
	CatalogID string
	// OnResolve runs at the start of every call, before any queued error is returned.
	OnResolve func()
}

func NewFakeResolver(catalogID string) *FakeResolver {
	return &FakeResolver{CatalogID: catalogID}
}

func (f *FakeResolver) Resolve(ctx context.Context, barcode string) (*holdings.Lookup, error) {
	if f.OnResolve != nil {
		f.OnResolve()
	}
	if err := f.next(); err != nil {
		return nil, err
	}
	return &holdings.Lookup{Barcode: barcode, CatalogID: f.CatalogID}, nil
}

// FakeAvailability returns the same SRU body for every catalog id.
type FakeAvailability struct {
	calls
	Body []byte
}

func NewFakeAvailability(body []byte) *FakeAvailability {
	return &FakeAvailability{Body: body}
}

func (f *FakeAvailability) CheckAvailability(ctx context.Context, catalogID string) ([]byte, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return f.Body, nil
}

type FakeCheckIn struct {
	calls
	RoutingInstructions string
}

func NewFakeCheckIn(routing string) *FakeCheckIn {
	return &FakeCheckIn{RoutingInstructions: routing}
}

func (f *FakeCheckIn) CheckIn(ctx context.Context, barcode string) (*ncip.Result, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return &ncip.Result{RoutingInstructions: f.RoutingInstructions}, nil
}

type FakeUsage struct {
	calls
}

func NewFakeUsage() *FakeUsage {
	return &FakeUsage{}
}

func (f *FakeUsage) RecordInLibraryUse(ctx context.Context, barcode string) error {
	return f.next()
}

type FakeInvalidator struct {
	lock          sync.Mutex
	invalidations int
}

func (f *FakeInvalidator) Invalidate() {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.invalidations++
}

func (f *FakeInvalidator) Invalidations() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.invalidations
}
