// Package usage records in-library use of items that were browsed but never
// loaned, through the WMS circulation routings API.
package usage

import (
	"bytes"
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

// InLibraryUseStatus is the status text reported after a usage is recorded.
const InLibraryUseStatus = "In-Library Use"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type usageRequest struct {
	Location string `json:"location"`
}

type Recorder struct {
	baseURL    string
	registryID string
	tokens     token.Source
	client     *http.Client
}

// NewRecorder takes the institution's circulation host, e.g.
// https://128807.share.worldcat.org
func NewRecorder(circulationBaseURL, registryID string, tokens token.Source, client *http.Client) *Recorder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Recorder{baseURL: circulationBaseURL, registryID: registryID, tokens: tokens, client: client}
}

// RecordInLibraryUse posts a usage for barcode at the configured branch.
func (r *Recorder) RecordInLibraryUse(ctx context.Context, barcode string) error {
	const op = "usage.RecordInLibraryUse"

	payload, err := json.Marshal(usageRequest{
		Location: fmt.Sprintf("%s/circ/branches/%s", r.baseURL, r.registryID),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUsage, op, errors.Wrap(err, "[Recorder.RecordInLibraryUse] marshal"))
	}

	accessToken, err := r.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/circ/items/%s/routings/usages", r.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(apperrors.KindUsage, op, errors.Wrap(err, "[Recorder.RecordInLibraryUse] NewRequest"))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Str("url", endpoint).RawJSON("payload", payload).Msg("Non-loan return request")
	started := time.Now()
	resp, err := r.client.Do(req)
	metrics.ObserveUpstream("usage", started)
	if err != nil {
		if apperrors.IsTimeout(err) {
			log.Error().Str("barcode", barcode).Msg("Timeout occurred during non-loan return")
		} else {
			log.Err(err).Str("barcode", barcode).Msg("Error during non-loan return")
		}
		return apperrors.Wrap(apperrors.KindUsage, op, err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadBody(resp.Body)
	if err != nil {
		return apperrors.WrapMsg(apperrors.KindUsage, op, err, "reading usage response")
	}
	log.Debug().Int("status", resp.StatusCode).Msg("Non-loan return response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Newf(apperrors.KindUsage, op, "HTTP %d: %s", resp.StatusCode, body)
	}
	return nil
}
