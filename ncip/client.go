// Package ncip performs NCIP CheckInItem transactions against the OCLC WMS NCIP
// endpoint.
package ncip

import (
	"bytes"
	"context"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/httpclient"
	"github.com/jrsteele09/go-library-checkin/internal/metrics"
	"github.com/jrsteele09/go-library-checkin/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config holds the identifiers embedded in every CheckInItem request.
type Config struct {
	URL           string
	RegistryID    string
	InstitutionID string
	AgencyScheme  string
	ProfileScheme string
	Profile       string
}

// Result is a successful check-in.
type Result struct {
	RoutingInstructions string
}

type Client struct {
	cfg    Config
	tokens token.Source
	client *http.Client
}

// NewClient expects tokens to hand out a fresh token on every call; the NCIP
// endpoint does not accept reused tokens.
func NewClient(cfg Config, tokens token.Source, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{cfg: cfg, tokens: tokens, client: client}
}

// CheckIn checks barcode back in. A Problem in the response is returned as a
// *ProblemError tagged KindCheckIn.
func (c *Client) CheckIn(ctx context.Context, barcode string) (*Result, error) {
	const op = "ncip.CheckIn"

	payload, err := buildCheckIn(c.cfg, barcode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCheckIn, op, errors.Wrap(err, "[Client.CheckIn] marshal request"))
	}

	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindCheckIn, op, errors.Wrap(err, "[Client.CheckIn] NewRequest"))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/xml")

	log.Debug().Str("barcode", barcode).Bytes("request", payload).Msg("NCIP check-in request")
	started := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveUpstream("ncip", started)
	if err != nil {
		if apperrors.IsTimeout(err) {
			log.Error().Str("barcode", barcode).Msg("Timeout occurred during NCIP check-in")
		} else {
			log.Err(err).Str("barcode", barcode).Msg("Error during NCIP check-in")
		}
		return nil, apperrors.Wrap(apperrors.KindCheckIn, op, err)
	}
	defer resp.Body.Close()

	body, err := httpclient.ReadBody(resp.Body)
	if err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindCheckIn, op, err, "reading NCIP response")
	}
	log.Debug().Int("status", resp.StatusCode).Bytes("response", body).Msg("NCIP check-in response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Newf(apperrors.KindCheckIn, op, "HTTP %d: %s", resp.StatusCode, body)
	}

	parsed, err := parseResponse(body)
	if err != nil {
		return nil, apperrors.WrapMsg(apperrors.KindCheckIn, op, err, "failed to parse NCIP response")
	}
	if problem := parsed.problemError(); problem != nil {
		log.Warn().Str("barcode", barcode).Str("problemType", problem.Type).Msg("NCIP reported a problem")
		return nil, apperrors.Wrap(apperrors.KindCheckIn, op, problem)
	}
	return &Result{RoutingInstructions: parsed.routing()}, nil
}
