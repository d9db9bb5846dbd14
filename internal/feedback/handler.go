package feedback

import (
	"context"
	"net/http"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/transport"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto CreateFeedbackDTO, author internal.Principal) (*Feedback, error)
	Get(ctx context.Context, id int64, caller internal.Principal) (*Feedback, error)
	ListByEmployee(ctx context.Context, employeeID int64, caller internal.Principal) ([]Feedback, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.RequirePrincipal(w, r)
	if !ok {
		return
	}

	var dto CreateFeedbackDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.Create(r.Context(), dto, caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.RequirePrincipal(w, r)
	if !ok {
		return
	}

	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	f, err := h.Service.Get(r.Context(), id, caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) ListEmployeeFeedback(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.RequirePrincipal(w, r)
	if !ok {
		return
	}

	employeeID, err := h.IDParam(r, "employeeID")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	items, err := h.Service.ListByEmployee(r.Context(), employeeID, caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}
