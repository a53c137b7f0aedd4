package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// API Routes
	RouteAPI     = "/api/"
	RouteCheckIn = "/api/checkin"
	RouteScans   = "/api/scans"

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)

const contentTypeJSON = "application/json"
