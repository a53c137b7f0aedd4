package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// Check-in API
	s.RegisterRouteHandler("POST "+RouteCheckIn, ChainMiddleware(s.CheckInHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteScans, ChainMiddleware(s.ScansHandler(), s.APIMiddleware(s.CompressionMiddleware)...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPI, ChainMiddleware(noContent, s.APIMiddleware()...))

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}

// noContent answers preflight requests once CorsMiddleware has set its headers.
func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
