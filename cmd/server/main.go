package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-library-checkin/availability"
	"github.com/jrsteele09/go-library-checkin/checkin"
	"github.com/jrsteele09/go-library-checkin/holdings"
	"github.com/jrsteele09/go-library-checkin/internal/config"
	"github.com/jrsteele09/go-library-checkin/internal/httpclient"
	"github.com/jrsteele09/go-library-checkin/internal/logging"
	"github.com/jrsteele09/go-library-checkin/internal/metrics"
	"github.com/jrsteele09/go-library-checkin/ncip"
	"github.com/jrsteele09/go-library-checkin/scans"
	"github.com/jrsteele09/go-library-checkin/server"
	"github.com/jrsteele09/go-library-checkin/token"
	"github.com/jrsteele09/go-library-checkin/usage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load("")
	if err != nil {
		return err
	}
	logging.Setup(c.GetLogLevel(), c.GetEnv())
	if err := config.Validate(c); err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	processor, err := newProcessor(c)
	if err != nil {
		return err
	}
	metrics.Register(prometheus.DefaultRegisterer)

	handler, err := server.New(c, processor, scans.NewInMemoryRepo())
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newProcessor wires the OCLC clients. Every upstream call shares one client, so the
// timeout and the outbound rate limit apply across all services.
func newProcessor(c config.Config) (*checkin.Processor, error) {
	client := httpclient.New(c.GetHTTPTimeout(), httpclient.NewLimiter(c.GetUpstreamRateLimit(), c.GetUpstreamBurst()))

	creds := token.Credentials{
		Key:      c.GetWSKey(),
		Secret:   c.GetSecret(),
		Scope:    c.GetScope(),
		TokenURL: c.GetTokenURL(),
	}
	tokens := token.New(creds, token.WithHTTPClient(client))
	ncipTokens := token.NewUncached(creds, token.WithHTTPClient(client))

	checker, err := availability.NewChecker(c.GetAvailabilityURL(), c.GetInstitutionID(), tokens, client)
	if err != nil {
		return nil, err
	}

	return checkin.NewProcessor(checkin.Dependencies{
		Holdings:     holdings.NewResolver(c.GetDiscoveryURL(), tokens, client),
		Availability: checker,
		NCIP: ncip.NewClient(ncip.Config{
			URL:           c.GetNCIPURL(),
			RegistryID:    c.GetRegistryID(),
			InstitutionID: c.GetInstitutionID(),
			AgencyScheme:  c.GetNCIPAgencyScheme(),
			ProfileScheme: c.GetNCIPProfileScheme(),
			Profile:       c.GetNCIPProfile(),
		}, ncipTokens, client),
		Usage:  usage.NewRecorder(c.GetCirculationBaseURL(), c.GetRegistryID(), tokens, client),
		Tokens: tokens,
	}, checkin.WithMaxAttempts(c.GetMaxAttempts()))
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
