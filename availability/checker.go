// Package availability queries the WorldCat SRU availability service and turns its
// response into the status of a single copy.
package availability

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/httpclient"
	"github.com/jrsteele09/go-library-checkin/internal/metrics"
	"github.com/jrsteele09/go-library-checkin/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultURL is the production SRU availability endpoint.
const DefaultURL = "https://worldcat.org/circ/availability/sru/service"

type Checker struct {
	serviceURL string
	registryID string
	tokens     token.Source
	client     *http.Client
}

// NewChecker only accepts https endpoints. Certificate and hostname checks are left
// to client, which must not skip verification.
func NewChecker(serviceURL, institutionID string, tokens token.Source, client *http.Client) (*Checker, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewChecker] invalid availability URL")
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("[NewChecker] availability URL must use https, got %q", u.Scheme)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Checker{
		serviceURL: serviceURL,
		registryID: institutionID,
		tokens:     tokens,
		client:     client,
	}, nil
}

// CheckAvailability returns the raw SRU response for catalogID. Any status other than
// 200 is an error that carries the response body.
func (c *Checker) CheckAvailability(ctx context.Context, catalogID string) ([]byte, error) {
	const op = "availability.CheckAvailability"

	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?x-registryId=%s&query=no:%s",
		c.serviceURL, url.QueryEscape(c.registryID), url.QueryEscape(catalogID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindAvailability, op, errors.Wrap(err, "[Checker.CheckAvailability] NewRequest"))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "*/*")
	req.Close = true

	log.Debug().Str("url", endpoint).Msg("Requesting availability")
	started := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveUpstream("availability", started)
	if err != nil {
		if apperrors.IsTimeout(err) {
			log.Error().Str("catalogId", catalogID).Msg("Timeout occurred during availability check")
		} else {
			log.Err(err).Str("catalogId", catalogID).Msg("Error during availability check")
		}
		return nil, apperrors.Wrap(apperrors.KindAvailability, op, err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadBody(resp.Body)
	if err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindAvailability, op, err, "reading availability response")
	}
	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("Availability response")

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.KindAvailability, op, "HTTP %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
