// Package holdings resolves a scanned item barcode to its OCLC number through the
// WorldCat Discovery "my holdings" search.
package holdings

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
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// UnknownCatalogID is reported when a holding carries no OCLC number.
const UnknownCatalogID = "Unknown OCLC Number"

var ErrNoHoldings = errors.New("no holdings for barcode")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Lookup is the catalog identifier found for one barcode.
type Lookup struct {
	Barcode   string
	CatalogID string
}

type searchResponse struct {
	NumberOfHoldings int `json:"numberOfHoldings"`
	DetailedHoldings []struct {
		OCLCNumber string `json:"oclcNumber"`
	} `json:"detailedHoldings"`
}

type Resolver struct {
	baseURL string
	tokens  token.Source
	client  *http.Client
}

func NewResolver(discoveryURL string, tokens token.Source, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{baseURL: discoveryURL, tokens: tokens, client: client}
}

// Resolve returns the OCLC number of the first holding that matches barcode.
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*Lookup, error) {
	const op = "holdings.Resolve"

	accessToken, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search/my-holdings?barcode=%s", r.baseURL, url.QueryEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindLookup, op, errors.Wrap(err, "[Resolver.Resolve] NewRequest"))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("url", endpoint).Msg("Requesting OCLC lookup")
	started := time.Now()
	resp, err := r.client.Do(req)
	metrics.ObserveUpstream("holdings", started)
	if err != nil {
		if apperrors.IsTimeout(err) {
			log.Error().Str("barcode", barcode).Msg("Timeout occurred during OCLC lookup")
			return nil, apperrors.WrapMsg(apperrors.KindLookup, op, err, "the request to OCLC timed out")
		}
		log.Err(err).Str("barcode", barcode).Msg("Error during OCLC lookup")
		return nil, apperrors.Wrap(apperrors.KindLookup, op, err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadBody(resp.Body)
	if err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindLookup, op, err, "reading holdings response")
	}
	log.Debug().Int("status", resp.StatusCode).Msg("OCLC lookup response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Newf(apperrors.KindLookup, op, "HTTP %d: %s", resp.StatusCode, body)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindLookup, op, err, "decoding holdings response")
	}
	if sr.NumberOfHoldings == 0 || len(sr.DetailedHoldings) == 0 {
		return nil, apperrors.Wrap(apperrors.KindLookup, op, ErrNoHoldings)
	}

	catalogID := sr.DetailedHoldings[0].OCLCNumber
	if catalogID == "" {
		catalogID = UnknownCatalogID
	}
	return &Lookup{Barcode: barcode, CatalogID: catalogID}, nil
}
