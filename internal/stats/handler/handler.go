package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tally/internal/stats/models"
	"tally/internal/stats/service"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/httputil"
	"tally/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/stats-mocks.go -package=mocks Service

type Service interface {
	ComputePollStats(ctx context.Context, tenant id.TenantID, scope service.PollScope) (*models.PollReport, error)
	ComputeBudgetStats(ctx context.Context, tenant id.TenantID, scope service.BudgetScope) (*models.BudgetReport, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts statistics endpoints. Routes expect the tenant middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/polls/{pollID}/stats", h.HandlePollStats)
	r.Get("/budgets/{budgetID}/stats", h.HandleBudgetStats)
}

// HandlePollStats handles GET /polls/{pollID}/stats. The optional web_white
// query parameter carries the blank web ballots.
func (h *Handler) HandlePollStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	poll, err := id.ParsePollID(chi.URLParam(r, "pollID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	webWhite, err := parseWebWhite(r.URL.Query().Get("web_white"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.ComputePollStats(ctx, requestcontext.TenantID(ctx), service.PollScope{PollID: poll, WebWhite: webWhite})
	if err != nil {
		h.logger.WarnContext(ctx, "poll stats failed",
			"request_id", requestID,
			"poll_id", poll,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleBudgetStats handles GET /budgets/{budgetID}/stats.
func (h *Handler) HandleBudgetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	budget, err := id.ParseBudgetID(chi.URLParam(r, "budgetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.ComputeBudgetStats(ctx, requestcontext.TenantID(ctx), service.BudgetScope{BudgetID: budget})
	if err != nil {
		h.logger.WarnContext(ctx, "budget stats failed",
			"request_id", requestID,
			"budget_id", budget,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func parseWebWhite(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "web_white must be a non-negative integer")
	}
	return n, nil
}
