// Package api provides HTTP API handlers for mudra.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

// Pipeline is the part of the application the API drives.
// *app.App satisfies it.
type Pipeline interface {
	ProcessFrame(frame *gocv.Mat) (*app.Outcome, error)
	Session() *gesture.Session
	ResetSession() *gesture.Session
	IsEnabled() bool
	SetEnabled(enabled bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// queryInt reads a positive integer query parameter, or def if absent.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
