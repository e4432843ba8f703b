package web

import (
	"net/http"
	"strconv"

	"github.com/agrodesk/farmers-api/internal/dto"
	"github.com/agrodesk/farmers-api/internal/service"
)

// ListFarmers returns every farmer, deactivated ones included / Retourne tous les agriculteurs
func (h *Handler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.container.FarmerSvc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.FarmersToDTO(farmers))
}

// CropDistribution returns the farmer count per crop type
func (h *Handler) CropDistribution(w http.ResponseWriter, r *http.Request) {
	counts, err := h.container.FarmerSvc.CropDistribution(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.CropCountsToDTO(counts))
}

// CreateFarmer registers a farmer / Enregistre un agriculteur
//
// Every field of the body is required. Zero farm size and average yield are
// accepted; absent, null or empty string fields are rejected.
func (h *Handler) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFarmerDTOReq
	if !decodeBody(w, r, &req) {
		return
	}

	farmer, err := req.ToDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := h.container.FarmerSvc.Create(r.Context(), farmer)
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.CreateFarmerDTOResponse{
		ID:      id,
		Message: dto.MsgFarmerAdded,
	})
}

// UpdateFarmer applies a partial update / Applique une mise à jour partielle
//
// The deactivated flag in the response echoes the request; the row is not re-read.
func (h *Handler) UpdateFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := farmerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateFarmerDTOReq
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.container.FarmerSvc.Update(r.Context(), id, req.ToDomain()); err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.UpdateFarmerDTOResponse{
		Message:     dto.MsgFarmerUpdated,
		Deactivated: req.Deactivated,
	})
}

// DeactivateFarmer soft deletes a farmer / Désactive un agriculteur
func (h *Handler) DeactivateFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := farmerID(w, r)
	if !ok {
		return
	}

	if err := h.container.FarmerSvc.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, dto.MessageDTOResponse{Message: dto.MsgFarmerDeactivated})
}

// farmerID reads the {id} path segment. An id that is not an integer cannot
// name a row, so it is reported as not found.
func farmerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		ErrorResponse(w, service.MsgFarmerNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}
