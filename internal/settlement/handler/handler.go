package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"consortium/internal/settlement/models"
	dErrors "consortium/pkg/domain-errors"
	"consortium/pkg/platform/httputil"
	"consortium/pkg/platform/middleware/auth"
	request "consortium/pkg/platform/middleware/request"
)

const (
	ScopeRead  = "settlement:read"
	ScopeWrite = "settlement:write"
)

// Service defines the settlement operations exposed over HTTP.
type Service interface {
	CreateReport(ctx context.Context, from, to int64) (*models.SettlementReport, error)
	PreviewReport(ctx context.Context, from, to int64) (*models.SettlementReport, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error)
	FindReportByRange(ctx context.Context, from, to int64) (*models.SettlementReport, error)
	ListReports(ctx context.Context) ([]models.ReportSummary, error)
}

// Handler serves the operator-facing settlement endpoints. Authentication
// is applied by the caller; Register only enforces per-route scopes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/settlement/reports", func(r chi.Router) {
		r.With(auth.RequireScope(ScopeWrite, h.logger)).Post("/", h.handleCreateReport)
		r.With(auth.RequireScope(ScopeRead, h.logger)).Post("/preview", h.handlePreviewReport)
		r.With(auth.RequireScope(ScopeRead, h.logger)).Get("/", h.handleListReports)
		r.With(auth.RequireScope(ScopeRead, h.logger)).Get("/{report_id}", h.handleGetReport)
	})
}

func (h *Handler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := h.decodeReportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.CreateReport(ctx, *req.FromBlockHeight, *req.ToBlockHeight)
	if err != nil {
		h.writeServiceError(ctx, w, "create settlement report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toReportResponse(report))
}

func (h *Handler) handlePreviewReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := h.decodeReportRequest(w, r)
	if !ok {
		return
	}

	report, err := h.service.PreviewReport(ctx, *req.FromBlockHeight, *req.ToBlockHeight)
	if err != nil {
		h.writeServiceError(ctx, w, "preview settlement report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
}

// handleListReports lists summaries, or returns the single report covering
// exactly the from/to query range when one is given.
func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, byRange, err := rangeQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if byRange {
		report, err := h.service.FindReportByRange(ctx, from, to)
		if err != nil {
			h.writeServiceError(ctx, w, "find settlement report", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
		return
	}

	summaries, err := h.service.ListReports(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, "list settlement reports", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(summaries))
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(chi.URLParam(r, "report_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "report_id must be a UUID"))
		return
	}

	report, err := h.service.GetReport(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "get settlement report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReportResponse(report))
}

func (h *Handler) decodeReportRequest(w http.ResponseWriter, r *http.Request) (*ReportRequest, bool) {
	var req ReportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid settlement report request",
			"request_id", request.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return &req, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
