package handlers

import (
	"net/http"

	"github.com/ghuser/itemstore/pkg/httpx"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
)

// GetStatsHandler handles GET /stats requests.
type GetStatsHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetStatsHandler returns a GetStatsHandler backed by the given services.
func NewGetStatsHandler(svc *appsvcs.Services, isProduction bool) *GetStatsHandler {
	return &GetStatsHandler{svc: svc, isProduction: isProduction}
}

// Execute writes the item count and the average price of priced items.
func (h *GetStatsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Item.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}
	httpx.JSON(w, http.StatusOK, StatsResponse{Total: stats.Total, AveragePrice: stats.AveragePrice})
}
