package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "himalcli/internal/errors"
)

// DatasetHandler serves dataset management endpoints
type DatasetHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates the dataset handler
func NewDatasetHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/reload", h.Reload)
	return r
}

// reloadRequest is the optional POST body of the reload endpoint
type reloadRequest struct {
	BasePath string `json:"base_path"`
}

// Bind implements render.Binder
func (req *reloadRequest) Bind(r *http.Request) error {
	return nil
}

// Reload handles POST /api/dataset/reload. An empty or absent body reloads
// the configured dataset directory.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	req := &reloadRequest{}
	if r.ContentLength > 0 {
		if err := render.Bind(r, req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Invalid reload request body"))
			return
		}
	}

	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("base_path", req.BasePath))

	entry, err := h.service.Reload(r.Context(), req.BasePath)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "reloaded",
		"dataset": entry,
	})
}
