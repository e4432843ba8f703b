package dto

import "github.com/agrodesk/farmers-api/internal/domain"

// YieldRecordDTOResponse is one row of GET /api/data
type YieldRecordDTOResponse struct {
	Date              string  `json:"date"`
	YieldKgPerHectare float64 `json:"yield_kg_per_hectare"`
}

// YieldRecordsToDTO converts the yield history, never returning nil.
func YieldRecordsToDTO(records []domain.YieldRecord) []YieldRecordDTOResponse {
	out := make([]YieldRecordDTOResponse, 0, len(records))
	for _, r := range records {
		out = append(out, YieldRecordDTOResponse{Date: r.Date, YieldKgPerHectare: r.YieldKgPerHectare})
	}
	return out
}
