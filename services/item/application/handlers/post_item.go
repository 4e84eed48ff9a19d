package handlers

import (
	"net/http"

	"github.com/ghuser/itemstore/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemstore/pkg/validator"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
)

// CreateItemRequest is the request body for POST /items.
// Trimming and length rules are enforced by the domain.
type CreateItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, isProduction bool) *PostItemHandler {
	return &PostItemHandler{svc: svc, isProduction: isProduction}
}

// Execute creates a new item and responds 201 with it.
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
