package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/repository"
	"github.com/brightnest/leads-api/internal/service"
)

// CatalogHandler handles service catalog requests
type CatalogHandler struct {
	service *service.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(service *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListServices handles GET /api/services
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, services, h.logger)
}

// GetService handles GET /api/services/{slug}
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	svc, err := h.service.GetService(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			WriteError(w, http.StatusNotFound, "Service not found", h.logger)
			return
		}

		h.logger.Error("failed to get service", zap.String("slug", slug), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, svc, h.logger)
}
