package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/itemstore/pkg/errhttp"
	"github.com/ghuser/itemstore/pkg/httpx"
	"github.com/ghuser/itemstore/pkg/telemetry"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// GetItemsHandler handles GET /items requests.
type GetItemsHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetItemsHandler returns a GetItemsHandler backed by the given services.
func NewGetItemsHandler(svc *appsvcs.Services, isProduction bool) *GetItemsHandler {
	return &GetItemsHandler{svc: svc, isProduction: isProduction}
}

// Execute lists items.
//
// Query parameters: page, limit, q. Values that are not integers are
// treated as missing; out-of-range values are clamped by the service.
func (h *GetItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	res, err := h.svc.Item.List(r.Context(), models.ListQuery{
		Page:  atoiOrZero(qs.Get("page")),
		Limit: atoiOrZero(qs.Get("limit")),
		Query: qs.Get("q"),
	})
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toListItemsResponse(res))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// writeError reports server-side failures to Sentry before writing the
// mapped error response.
func writeError(w http.ResponseWriter, r *http.Request, err error, isProduction bool) {
	if errhttp.StatusFor(err) >= http.StatusInternalServerError {
		telemetry.CaptureError(r, err)
	}
	errhttp.WriteError(w, err, isProduction)
}
