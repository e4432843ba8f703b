package dto

import "github.com/agrodesk/farmers-api/internal/domain"

// Response messages
const (
	MsgFarmerAdded       = "Farmer added successfully"
	MsgFarmerUpdated     = "Farmer updated successfully"
	MsgFarmerDeactivated = "Farmer deactivated successfully"
	MsgMissingFields     = "Missing required fields"
)

// FarmerDTOResponse is the JSON form of a farmer / Forme JSON d'un agriculteur
type FarmerDTOResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	CropType     string  `json:"crop_type"`
	PhoneNumber  string  `json:"phone_number"`
	FarmSize     float64 `json:"farm_size"`
	AverageYield float64 `json:"average_yield"`
	Deactivated  bool    `json:"deactivated"`
}

// CreateFarmerDTOReq is the body of POST /api/farmers. Pointers tell an
// absent (or null) field from a zero value.
type CreateFarmerDTOReq struct {
	Name         *string  `json:"name"`
	Location     *string  `json:"location"`
	Crop         *string  `json:"crop"`
	PhoneNumber  *string  `json:"phone_number"`
	FarmSize     *float64 `json:"farm_size"`
	AverageYield *float64 `json:"average_yield"`
}

// UpdateFarmerDTOReq is the body of PUT /api/farmers/{id}. Every field is optional.
type UpdateFarmerDTOReq struct {
	Name         *string  `json:"name"`
	Location     *string  `json:"location"`
	Crop         *string  `json:"crop"`
	PhoneNumber  *string  `json:"phone_number"`
	FarmSize     *float64 `json:"farm_size"`
	AverageYield *float64 `json:"average_yield"`
	Deactivated  *bool    `json:"deactivated"`
}

// CreateFarmerDTOResponse acknowledges a created farmer
type CreateFarmerDTOResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// UpdateFarmerDTOResponse echoes the submitted deactivated flag, not the stored one.
type UpdateFarmerDTOResponse struct {
	Message     string `json:"message"`
	Deactivated *bool  `json:"deactivated,omitempty"`
}

// MessageDTOResponse carries a single message
type MessageDTOResponse struct {
	Message string `json:"message"`
}

// CropCountDTOResponse is one crop distribution bucket
type CropCountDTOResponse struct {
	CropType string `json:"crop_type"`
	Count    int64  `json:"count"`
}

// ToDomain checks that every field is present. String fields must also be
// non-empty; zero is a valid farm size and average yield.
func (r CreateFarmerDTOReq) ToDomain() (domain.NewFarmer, error) {
	if blank(r.Name) || blank(r.Location) || blank(r.Crop) || blank(r.PhoneNumber) ||
		r.FarmSize == nil || r.AverageYield == nil {
		return domain.NewFarmer{}, domain.NewValidationError(MsgMissingFields)
	}
	return domain.NewFarmer{
		Name:         *r.Name,
		Location:     *r.Location,
		CropType:     *r.Crop,
		PhoneNumber:  *r.PhoneNumber,
		FarmSize:     *r.FarmSize,
		AverageYield: *r.AverageYield,
	}, nil
}

func blank(p *string) bool {
	return p == nil || *p == ""
}

// ToDomain maps the submitted fields one to one. Filtering of empty values
// happens in the service.
func (r UpdateFarmerDTOReq) ToDomain() domain.FarmerUpdate {
	return domain.FarmerUpdate{
		Name:         r.Name,
		Location:     r.Location,
		CropType:     r.Crop,
		PhoneNumber:  r.PhoneNumber,
		FarmSize:     r.FarmSize,
		AverageYield: r.AverageYield,
		Deactivated:  r.Deactivated,
	}
}

// FarmerToDTO converts domain.Farmer to FarmerDTOResponse
func FarmerToDTO(f domain.Farmer) FarmerDTOResponse {
	return FarmerDTOResponse{
		ID:           f.ID,
		Name:         f.Name,
		Location:     f.Location,
		CropType:     f.CropType,
		PhoneNumber:  f.PhoneNumber,
		FarmSize:     f.FarmSize,
		AverageYield: f.AverageYield,
		Deactivated:  f.Deactivated,
	}
}

// FarmersToDTO converts a list, never returning nil so it encodes as [].
func FarmersToDTO(farmers []domain.Farmer) []FarmerDTOResponse {
	out := make([]FarmerDTOResponse, 0, len(farmers))
	for _, f := range farmers {
		out = append(out, FarmerToDTO(f))
	}
	return out
}

// CropCountsToDTO converts crop distribution buckets
func CropCountsToDTO(counts []domain.CropCount) []CropCountDTOResponse {
	out := make([]CropCountDTOResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, CropCountDTOResponse{CropType: c.CropType, Count: c.Count})
	}
	return out
}
