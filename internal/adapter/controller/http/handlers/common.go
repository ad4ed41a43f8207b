package handlers

import (
	"encoding/json"
	"net/http"
)

// Policy declares how an endpoint treats provider failure. The split is
// deliberate per endpoint: reputation forwards the upstream status, the
// search endpoints answer a flat 500 (401 when the faceted host query
// hits a credential failure), the feed endpoints mask failure behind
// fallback data so the dashboard always renders, and the list endpoints
// answer 500 with an empty array envelope.
type Policy int

const (
	// PolicySurface propagates the upstream status and message.
	PolicySurface Policy = iota
	// PolicyMask swallows provider failure into 200 + fallback payload.
	PolicyMask
	// PolicyEmpty answers 500 with a success=false empty-array envelope.
	PolicyEmpty
)

// JSONResponse sends a JSON response with the given status code
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse sends a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	response := map[string]interface{}{
		"error":   message,
		"success": false,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	JSONResponse(w, statusCode, response)
}

// DecodeJSON decodes JSON from request body
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
