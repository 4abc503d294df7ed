package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/coverage"
)

// coverageChecker is the interface for postcode lookups
type coverageChecker interface {
	Lookup(postcode string) coverage.Area
	GetStats() coverage.Stats
}

// CoverageHandler answers service area questions
type CoverageHandler struct {
	checker coverageChecker
	log     *zap.Logger
}

func NewCoverageHandler(checker coverageChecker, log *zap.Logger) *CoverageHandler {
	return &CoverageHandler{
		checker: checker,
		log:     log,
	}
}

// CheckPostcode handles GET /api/coverage/{postcode}.
// 200 when the postcode is served, 404 when it is not.
func (h *CoverageHandler) CheckPostcode(w http.ResponseWriter, r *http.Request) {
	area := h.checker.Lookup(chi.URLParam(r, "postcode"))

	status := http.StatusOK
	if !area.Served {
		status = http.StatusNotFound
	}
	WriteJSON(w, status, area, h.log)
}

// GetStats handles GET /api/coverage/stats
func (h *CoverageHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.checker.GetStats(), h.log)
}
