package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"himalcli/internal/dataset"
	apierrors "himalcli/internal/errors"
	"himalcli/internal/exporter"
	"himalcli/internal/services"
)

// DashboardHandler serves the dashboard API with RFC 7807 error responses
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler

	// Where the export endpoint writes the summary workbook
	workbookPath string
}

// NewDashboardHandler creates the dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, workbookPath string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		workbookPath: workbookPath,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/filters", h.GetFilters)
	r.Get("/snapshot", h.GetSnapshot)
	r.Get("/analytics", h.GetAnalytics)
	r.Get("/export", h.ExportWorkbook)

	r.Route("/preview/{table}", func(r chi.Router) {
		r.Use(h.TableCtx)
		r.Get("/", h.GetPreview)
	})

	return r
}

// TableCtx validates the table name parameter
func (h *DashboardHandler) TableCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		switch table {
		case dataset.TableExpeditions, dataset.TableMembers, dataset.TablePeaks,
			dataset.TableReferences, dataset.TableDictionary:
			next.ServeHTTP(w, r)
		default:
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("table", "Unknown dataset table: "+table))
		}
	})
}

// GetFilters handles GET /api/dashboard/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	domains, err := h.service.FilterDomains(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, domains)
}

// GetSnapshot handles GET /api/dashboard/snapshot with optional year and
// nationality query parameters.
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	req := services.SnapshotRequest{}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "Year must be an integer"))
			return
		}
		req.Year = &year
	}

	if raw := r.URL.Query().Get("nationality"); raw != "" {
		nationality := raw
		req.Nationality = &nationality
	}

	snapshot, err := h.service.Snapshot(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "snapshot build failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, snapshot)
}

// GetAnalytics handles GET /api/dashboard/analytics
func (h *DashboardHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analytics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetPreview handles GET /api/dashboard/preview/{table}
func (h *DashboardHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	rows := 0
	if raw := r.URL.Query().Get("rows"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("rows", "Rows must be a positive integer"))
			return
		}
		rows = parsed
	}

	preview, err := h.service.Preview(r.Context(), table, rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, preview)
}

// ExportWorkbook handles GET /api/dashboard/export. The workbook is written
// fresh on every request so it always reflects the current dataset.
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analytics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := exporter.WriteSummaryWorkbook(h.workbookPath, report); err != nil {
		h.logger.ErrorContext(r.Context(), "workbook export failed",
			slog.String("path", h.workbookPath),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expedition_summary.xlsx"`)
	http.ServeFile(w, r, h.workbookPath)
}
