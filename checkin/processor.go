// Package checkin drives a scanned barcode through holdings lookup, availability
// and the resulting circulation action, retrying the whole sequence on failure.
package checkin

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-library-checkin/availability"
	"github.com/jrsteele09/go-library-checkin/holdings"
	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/metrics"
	"github.com/jrsteele09/go-library-checkin/ncip"
	"github.com/jrsteele09/go-library-checkin/usage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultMaxAttempts is the initial attempt plus two retries.
const DefaultMaxAttempts = 3

// EmptyBarcodeMessage is returned when a scan carries no barcode.
const EmptyBarcodeMessage = "Please enter a barcode."

type Resolver interface {
	Resolve(ctx context.Context, barcode string) (*holdings.Lookup, error)
}

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, catalogID string) ([]byte, error)
}

type CheckInClient interface {
	CheckIn(ctx context.Context, barcode string) (*ncip.Result, error)
}

type UsageRecorder interface {
	RecordInLibraryUse(ctx context.Context, barcode string) error
}

// Invalidator drops a cached access token so the next attempt re-authenticates.
type Invalidator interface {
	Invalidate()
}

// Dependencies holds the collaborators of a Processor.
type Dependencies struct {
	Holdings     Resolver
	Availability AvailabilityChecker
	NCIP         CheckInClient
	Usage        UsageRecorder
	Tokens       Invalidator
}

type Processor struct {
	deps        Dependencies
	maxAttempts int
	nowTime     func() time.Time
}

type ProcessorOption func(*Processor)

// WithMaxAttempts bounds the number of attempts per barcode. Values below one are ignored.
func WithMaxAttempts(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.nowTime = nowFunc
	}
}

func NewProcessor(deps Dependencies, options ...ProcessorOption) (*Processor, error) {
	if deps.Holdings == nil {
		return nil, errors.New("[NewProcessor] Holdings resolver is required")
	}
	if deps.Availability == nil {
		return nil, errors.New("[NewProcessor] Availability checker is required")
	}
	if deps.NCIP == nil {
		return nil, errors.New("[NewProcessor] NCIP client is required")
	}
	if deps.Usage == nil {
		return nil, errors.New("[NewProcessor] Usage recorder is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[NewProcessor] Tokens is required")
	}

	p := &Processor{
		deps:        deps,
		maxAttempts: DefaultMaxAttempts,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

type attemptResult struct {
	status  *availability.Status
	outcome Outcome
	message string
}

// ProcessBarcode runs resolve, check and act for barcode. Any failure inside an
// attempt invalidates the cached token and restarts from the holdings lookup; once
// attempts are exhausted the row is Errored and carries the last failure's message.
// ctx is only consulted between attempts, never mid-call.
func (p *Processor) ProcessBarcode(ctx context.Context, barcode string) Result {
	barcode = strings.TrimSpace(barcode)
	result := Result{
		ScanID:      uuid.NewString(),
		Barcode:     barcode,
		ProcessedAt: p.nowTime(),
	}
	logger := log.With().Str("scanId", result.ScanID).Str("barcode", barcode).Logger()

	if barcode == "" {
		logger.Warn().Msg("No barcode entered.")
		result.setItem(nil)
		result.setOutcome(Outcome{Action: ActionRejected, StatusText: ErrorStatusText})
		result.Message = EmptyBarcodeMessage
		metrics.RecordOutcome(string(ActionRejected))
		return result
	}

	logger.Info().Msg("Processing barcode")
	attemptCtx := context.WithoutCancel(ctx)
	var lastErr error
	operation := func() (*attemptResult, error) {
		// A cancelled caller stops the retries but the row keeps the last real failure.
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, backoff.Permanent(lastErr)
			}
			return nil, backoff.Permanent(err)
		}
		result.Attempts++
		res, err := p.attempt(attemptCtx, barcode)
		metrics.RecordAttempt(err != nil)
		if err != nil {
			lastErr = err
			logger.Error().Err(err).Int("attempt", result.Attempts).Stringer("kind", apperrors.KindOf(err)).
				Msgf("Error processing barcode %s (attempt %d)", barcode, result.Attempts)
		}
		return res, err
	}
	retryPolicy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(p.maxAttempts-1))
	notify := func(err error, _ time.Duration) {
		logger.Info().Msg("Retrying after failure...")
		p.deps.Tokens.Invalidate()
	}

	res, err := backoff.RetryNotifyWithData(operation, retryPolicy, notify)
	if err != nil {
		err = apperrors.Wrap(apperrors.KindExhausted, "checkin.ProcessBarcode", err)
		logger.Error().Err(err).Int("attempts", result.Attempts).Msg("Giving up on barcode")
		result.setItem(nil)
		result.setOutcome(Outcome{Action: ActionErrored, StatusText: ErrorStatusText})
		result.Message = err.Error()
		metrics.RecordOutcome(string(ActionErrored))
		return result
	}

	result.setItem(res.status)
	result.setOutcome(res.outcome)
	result.Message = res.message
	logger.Info().Str("action", string(res.outcome.Action)).Str("status", res.outcome.StatusText).Msg("Barcode processed")
	metrics.RecordOutcome(string(res.outcome.Action))
	return result
}

// attempt is one pass through resolve, check and act.
func (p *Processor) attempt(ctx context.Context, barcode string) (*attemptResult, error) {
	lookup, err := p.deps.Holdings.Resolve(ctx, barcode)
	if err != nil {
		return nil, err
	}

	raw, err := p.deps.Availability.CheckAvailability(ctx, lookup.CatalogID)
	if err != nil {
		return nil, err
	}
	status, err := availability.ParseAvailability(raw, barcode)
	if err != nil {
		return nil, err
	}

	res := &attemptResult{status: status}
	decision := Decide(*status)
	log.Debug().Str("barcode", barcode).Stringer("decision", decision).Msg("Dispatching")
	switch decision {
	case DecisionRejectTransit:
		res.outcome = Outcome{Action: ActionRejected, StatusText: status.DisplayStatus()}
	case DecisionCheckIn:
		checkedIn, err := p.deps.NCIP.CheckIn(ctx, barcode)
		if err != nil {
			return nil, err
		}
		res.outcome = Outcome{Action: ActionCheckedIn, StatusText: checkedIn.RoutingInstructions}
	case DecisionInLibraryUse:
		if err := p.deps.Usage.RecordInLibraryUse(ctx, barcode); err != nil {
			return nil, err
		}
		res.outcome = Outcome{Action: ActionInLibraryUse, StatusText: usage.InLibraryUseStatus}
	default:
		res.outcome = Outcome{Action: ActionRejected, StatusText: status.DisplayStatus()}
		rejection := apperrors.Newf(apperrors.KindRejected, "checkin.attempt", "Item status: %s. %s", status.State, status.Reason())
		res.message = rejection.Error()
		log.Warn().Str("barcode", barcode).Stringer("kind", rejection.Kind).Msg(res.message)
	}
	return res, nil
}
