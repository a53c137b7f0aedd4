package token

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/jrsteele09/go-library-checkin/internal/errors"
	"github.com/jrsteele09/go-library-checkin/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultExpiresIn is assumed when the token endpoint omits expires_in.
	DefaultExpiresIn = time.Hour
	// DefaultSafetyMargin is subtracted from every token lifetime.
	DefaultSafetyMargin = 60 * time.Second
)

// Credentials is the WSKey client credentials pair and where to exchange it.
type Credentials struct {
	Key      string
	Secret   string
	Scope    string
	TokenURL string
}

func (c Credentials) oauthConfig() *clientcredentials.Config {
	cfg := &clientcredentials.Config{
		ClientID:     c.Key,
		ClientSecret: c.Secret,
		TokenURL:     c.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if c.Scope != "" {
		cfg.Scopes = []string{c.Scope}
	}
	return cfg
}

// fetch performs one client_credentials exchange and returns the token with its lifetime.
func (c Credentials) fetch(ctx context.Context, client *http.Client, source string) (string, time.Duration, error) {
	if client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	}

	started := time.Now()
	tok, err := c.oauthConfig().Token(ctx)
	metrics.ObserveUpstream("oauth", started)
	if err != nil {
		metrics.RecordTokenFetch(source, true)
		if apperrors.IsTimeout(err) {
			log.Error().Str("source", source).Msg("Timeout occurred while fetching OAuth token")
		} else {
			log.Err(err).Str("source", source).Msg("Error during OAuth token request")
		}
		return "", 0, apperrors.WrapMsg(apperrors.KindAuth, "token.fetch", err, "failed to obtain access token")
	}

	metrics.RecordTokenFetch(source, false)
	log.Debug().Str("source", source).Msg("Fetched access token")
	return tok.AccessToken, expiresIn(tok), nil
}

// expiresIn reads the raw expires_in value of the token response. oauth2.Token only
// exposes an absolute expiry computed from the wall clock.
func expiresIn(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return seconds(int64(v))
	case int64:
		return seconds(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return seconds(n)
		}
	}
	if !tok.Expiry.IsZero() {
		if remaining := time.Until(tok.Expiry); remaining > 0 {
			return remaining
		}
	}
	return DefaultExpiresIn
}

// seconds treats a non-positive lifetime as already expired.
func seconds(n int64) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
