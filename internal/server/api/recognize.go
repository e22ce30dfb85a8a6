package api

import (
	"encoding/base64"
	"errors"
	"io"
	"log"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
)

// MaxImageBytes bounds the request body of POST /api/recognize.
const MaxImageBytes = 10 << 20

// RecognizeHandler classifies an uploaded JPEG or PNG frame.
type RecognizeHandler struct {
	pipeline Pipeline
}

// NewRecognizeHandler creates a RecognizeHandler.
func NewRecognizeHandler(p Pipeline) *RecognizeHandler {
	return &RecognizeHandler{pipeline: p}
}

type recognizeResponse struct {
	Gesture   string `json:"gesture"`
	Display   string `json:"display"`
	IsNew     bool   `json:"is_new"`
	Hands     int    `json:"hands"`
	SessionID string `json:"session_id"`
	Image     string `json:"image,omitempty"`
}

// ServeHTTP handles POST /api/recognize. The body is the encoded image;
// ?mirror=1 flips it horizontally first.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if len(data) > MaxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Image too large")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Image is required")
		return
	}

	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		writeError(w, http.StatusBadRequest, "Invalid image")
		return
	}
	defer frame.Close()

	if r.URL.Query().Get("mirror") == "1" {
		capture.Mirror(&frame)
	}

	out, err := h.pipeline.ProcessFrame(&frame)
	if err != nil {
		if errors.Is(err, gesture.ErrInvalidFrame) {
			writeError(w, http.StatusBadRequest, "Invalid image")
			return
		}
		log.Printf("Recognize failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Recognition failed")
		return
	}

	response := recognizeResponse{
		Gesture:   out.Gesture,
		Display:   out.Display,
		IsNew:     out.IsNew,
		Hands:     out.Hands,
		SessionID: out.SessionID,
	}
	if len(out.Image) > 0 {
		response.Image = base64.StdEncoding.EncodeToString(out.Image)
	}

	writeJSON(w, http.StatusOK, response)
}
