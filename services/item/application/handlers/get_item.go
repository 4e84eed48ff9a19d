package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemstore/pkg/httpx"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, isProduction bool) *GetItemHandler {
	return &GetItemHandler{svc: svc, isProduction: isProduction}
}

// Execute returns a single item. A non-integer or non-positive id is a 400.
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemID, err), h.isProduction)
		return
	}

	item, err := h.svc.Item.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
