package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/httputil"
	"tally/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/dedup-mocks.go -package=mocks Service

// Service runs maintenance passes for one tenant.
type Service interface {
	DeduplicateVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) (int, error)
	DeduplicateAllVoters(ctx context.Context, tenant id.TenantID) (int, error)
	DeduplicateAnswers(ctx context.Context, tenant id.TenantID, scope participation.Scope) (int, error)
	BackfillOptionIDs(ctx context.Context, tenant id.TenantID, scope participation.Scope) (int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts maintenance endpoints. Routes expect the tenant middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/maintenance/voters/dedup", h.HandleDedupVoters)
	r.Post("/maintenance/answers/dedup", h.HandleDedupAnswers)
	r.Post("/maintenance/answers/backfill-options", h.HandleBackfillOptions)
}

// HandleDedupVoters handles POST /maintenance/voters/dedup.
func (h *Handler) HandleDedupVoters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DedupVotersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenant := requestcontext.TenantID(ctx)

	var (
		removed int
		err     error
	)
	if req.poll != nil {
		removed, err = h.service.DeduplicateVoters(ctx, tenant, *req.poll)
	} else {
		removed, err = h.service.DeduplicateAllVoters(ctx, tenant)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "deduplicate voters failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RemovedResponse{Removed: removed})
}

// HandleDedupAnswers handles POST /maintenance/answers/dedup.
func (h *Handler) HandleDedupAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AnswersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	removed, err := h.service.DeduplicateAnswers(ctx, requestcontext.TenantID(ctx), req.Scope())
	if err != nil {
		h.logger.WarnContext(ctx, "deduplicate answers failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RemovedResponse{Removed: removed})
}

// HandleBackfillOptions handles POST /maintenance/answers/backfill-options.
func (h *Handler) HandleBackfillOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AnswersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resolved, err := h.service.BackfillOptionIDs(ctx, requestcontext.TenantID(ctx), req.Scope())
	if err != nil {
		h.logger.WarnContext(ctx, "backfill options failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResolvedResponse{Resolved: resolved})
}
