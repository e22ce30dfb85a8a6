package api

import (
	"log"
	"net/http"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// GestureHandler serves the gesture vocabulary in rule order.
type GestureHandler struct {
	classifier *gesture.Classifier
	store      *store.Store
}

// NewGestureHandler creates a GestureHandler. s may be nil, in which case
// announcement counts are omitted.
func NewGestureHandler(c *gesture.Classifier, s *store.Store) *GestureHandler {
	if c == nil {
		c = gesture.NewClassifier(gesture.DefaultThresholds())
	}
	return &GestureHandler{classifier: c, store: s}
}

type ruleResponse struct {
	Order       int    `json:"order"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Announced   int    `json:"announced"`
}

type listGesturesResponse struct {
	Gestures   []ruleResponse     `json:"gestures"`
	Thresholds gesture.Thresholds `json:"thresholds"`
}

// ServeHTTP handles GET /api/gestures.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var counts map[string]int
	if h.store != nil {
		var err error
		counts, err = h.store.Announcements().CountByGesture()
		if err != nil {
			log.Printf("Failed to count announcements: %v", err)
		}
	}

	rules := gesture.Rules()
	response := listGesturesResponse{
		Gestures:   make([]ruleResponse, 0, len(rules)),
		Thresholds: h.classifier.Thresholds(),
	}

	for i, rule := range rules {
		response.Gestures = append(response.Gestures, ruleResponse{
			Order:       i + 1,
			Label:       string(rule.Label),
			Description: rule.Description,
			Announced:   counts[string(rule.Label)],
		})
	}

	writeJSON(w, http.StatusOK, response)
}
