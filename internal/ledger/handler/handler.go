package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tally/internal/ledger/models"
	"tally/internal/ledger/service"
	id "tally/pkg/domain"
	"tally/pkg/platform/httputil"
	"tally/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/ledger-mocks.go -package=mocks Service

type Service interface {
	SaveRecount(ctx context.Context, in service.RecountInput) (*models.Recount, error)
	SavePartialResult(ctx context.Context, in service.PartialResultInput) (*models.PartialResult, error)
	RecordAmountChange(ctx context.Context, ref models.Ref, field string, value int, assignment id.OfficerAssignmentID, author id.UserID) error
	History(ctx context.Context, ref models.Ref) (*models.History, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts ledger endpoints. Routes expect the tenant middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/recounts", h.HandleSaveRecount)
	r.Put("/recounts/{recountID}/amounts", h.HandleRecountAmount)
	r.Get("/recounts/{recountID}/history", h.HandleRecountHistory)
	r.Post("/partial-results", h.HandleSavePartialResult)
	r.Put("/partial-results/{resultID}/amounts", h.HandlePartialResultAmount)
	r.Get("/partial-results/{resultID}/history", h.HandlePartialResultHistory)
}

// HandleSaveRecount handles POST /recounts.
func (h *Handler) HandleSaveRecount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SaveRecountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	recount, err := h.service.SaveRecount(ctx, service.RecountInput{
		TenantID:            requestcontext.TenantID(ctx),
		OfficerAssignmentID: req.assignment,
		AuthorID:            req.author,
		Origin:              req.origin,
		Total:               req.TotalAmount,
		White:               req.WhiteAmount,
		Null:                req.NullAmount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save recount failed",
			"request_id", requestID,
			"officer_assignment_id", req.assignment,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRecountResponse(recount))
}

// HandleSavePartialResult handles POST /partial-results.
func (h *Handler) HandleSavePartialResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SavePartialResultRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.SavePartialResult(ctx, service.PartialResultInput{
		TenantID:            requestcontext.TenantID(ctx),
		OfficerAssignmentID: req.assignment,
		AuthorID:            req.author,
		Origin:              req.origin,
		QuestionID:          req.question,
		Answer:              req.Answer,
		Amount:              req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save partial result failed",
			"request_id", requestID,
			"question_id", req.question,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPartialResultResponse(result))
}

func (h *Handler) HandleRecountAmount(w http.ResponseWriter, r *http.Request) {
	recountID, err := id.ParseRecountID(chi.URLParam(r, "recountID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.recordAmount(w, r, models.RecountRef(requestcontext.TenantID(r.Context()), recountID))
}

func (h *Handler) HandlePartialResultAmount(w http.ResponseWriter, r *http.Request) {
	resultID, err := id.ParsePartialResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.recordAmount(w, r, models.PartialResultRef(requestcontext.TenantID(r.Context()), resultID))
}

func (h *Handler) recordAmount(w http.ResponseWriter, r *http.Request, ref models.Ref) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[AmountChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.RecordAmountChange(ctx, ref, req.Field, req.Value, req.assignment, req.author); err != nil {
		h.logger.WarnContext(ctx, "record amount change failed",
			"request_id", requestID,
			"kind", string(ref.Kind),
			"field", req.Field,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.writeHistory(w, r, ref)
}

func (h *Handler) HandleRecountHistory(w http.ResponseWriter, r *http.Request) {
	recountID, err := id.ParseRecountID(chi.URLParam(r, "recountID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeHistory(w, r, models.RecountRef(requestcontext.TenantID(r.Context()), recountID))
}

func (h *Handler) HandlePartialResultHistory(w http.ResponseWriter, r *http.Request) {
	resultID, err := id.ParsePartialResultID(chi.URLParam(r, "resultID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeHistory(w, r, models.PartialResultRef(requestcontext.TenantID(r.Context()), resultID))
}

func (h *Handler) writeHistory(w http.ResponseWriter, r *http.Request, ref models.Ref) {
	history, err := h.service.History(r.Context(), ref)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(history))
}
