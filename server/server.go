// Package server exposes the check-in processor over a small JSON API for the
// circulation desk front end.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-library-checkin/checkin"
	"github.com/jrsteele09/go-library-checkin/internal/config"
	"github.com/jrsteele09/go-library-checkin/scans"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// BarcodeProcessor runs one scanned barcode to a terminal outcome.
type BarcodeProcessor interface {
	ProcessBarcode(ctx context.Context, barcode string) checkin.Result
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	processor BarcodeProcessor
	scans     scans.Repo
}

func New(config config.Config, processor BarcodeProcessor, scanRepo scans.Repo) (*Server, error) {
	if processor == nil {
		return nil, errors.New("[Server New] processor is required")
	}
	if scanRepo == nil {
		return nil, errors.New("[Server New] scan repo is required")
	}

	s := &Server{
		env:       config.GetEnv(),
		mux:       http.NewServeMux(),
		config:    config,
		processor: processor,
		scans:     scanRepo,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
