package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-library-checkin/checkin"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type checkInRequest struct {
	Barcode string `json:"barcode"`
}

type scansResponse struct {
	Total int              `json:"total"`
	Scans []checkin.Result `json:"scans"`
}

// CheckInHandler processes one scanned barcode and records the row in the scan log.
// Rejected and errored rows are still 200s; the row's isError flag carries the result.
func (s *Server) CheckInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid_request", "Failed to parse request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Barcode) == "" {
			writeJSONError(w, "invalid_request", checkin.EmptyBarcodeMessage, http.StatusBadRequest)
			return
		}

		result := s.processor.ProcessBarcode(r.Context(), req.Barcode)
		if err := s.scans.Append(result); err != nil {
			log.Err(err).Str("barcode", result.Barcode).Msg("Failed to record scan")
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// ScansHandler returns the scan log of this process, oldest first.
func (s *Server) ScansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := s.scans.List()
		if err != nil {
			writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(scansResponse{Total: s.scans.Count(), Scans: results})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"appName": s.config.GetAppName(),
		})
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
