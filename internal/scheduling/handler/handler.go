package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/httputil"
	"tally/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/scheduling-mocks.go -package=mocks Service

// Service is the scheduling surface the handler needs.
type Service interface {
	ApplyShift(ctx context.Context, shift models.Shift) ([]*models.OfficerAssignment, error)
	RetractShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) error
	ListAssignments(ctx context.Context, tenant id.TenantID, officer id.OfficerID) ([]*models.OfficerAssignment, error)
	ShiftsForBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]*models.Shift, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts scheduling endpoints. Routes expect the tenant middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/shifts", h.HandleApplyShift)
	r.Delete("/shifts/{shiftID}", h.HandleRetractShift)
	r.Get("/booths/{boothID}/shifts", h.HandleBoothShifts)
	r.Get("/officers/{officerID}/assignments", h.HandleOfficerAssignments)
}

// HandleApplyShift handles POST /shifts.
func (h *Handler) HandleApplyShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ApplyShiftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	shift := req.Shift()
	shift.TenantID = requestcontext.TenantID(ctx)

	assignments, err := h.service.ApplyShift(ctx, shift)
	if err != nil {
		h.logger.WarnContext(ctx, "apply shift failed",
			"request_id", requestID,
			"booth_id", shift.BoothID,
			"officer_id", shift.OfficerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"assignments": toAssignmentResponses(assignments),
	})
}

// HandleRetractShift handles DELETE /shifts/{shiftID}.
func (h *Handler) HandleRetractShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shiftID, err := id.ParseShiftID(chi.URLParam(r, "shiftID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RetractShift(ctx, requestcontext.TenantID(ctx), shiftID); err != nil {
		h.logger.WarnContext(ctx, "retract shift failed",
			"request_id", requestcontext.RequestID(ctx),
			"shift_id", shiftID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleBoothShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	boothID, err := id.ParseBoothID(chi.URLParam(r, "boothID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	shifts, err := h.service.ShiftsForBooth(ctx, requestcontext.TenantID(ctx), boothID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"shifts": toShiftResponses(shifts)})
}

func (h *Handler) HandleOfficerAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.ListAssignments(ctx, requestcontext.TenantID(ctx), officerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"assignments": toAssignmentResponses(list)})
}
