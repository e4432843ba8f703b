package web

import (
	"net/http"

	"github.com/agrodesk/farmers-api/internal/dto"
)

// YieldHistory returns the yield records, most recent date first.
func (h *Handler) YieldHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.container.YieldSvc.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.YieldRecordsToDTO(records))
}
