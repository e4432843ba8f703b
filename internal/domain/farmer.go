package domain

// Farmer is a registered farmer / Un agriculteur enregistré
type Farmer struct {
	ID           int64
	Name         string
	Location     string
	CropType     string
	PhoneNumber  string
	FarmSize     float64
	AverageYield float64
	Deactivated  bool // Soft delete flag, rows are never removed
}

// NewFarmer holds the fields required to register a farmer.
type NewFarmer struct {
	Name         string
	Location     string
	CropType     string
	PhoneNumber  string
	FarmSize     float64
	AverageYield float64
}

// FarmerUpdate carries the columns of a partial update. A nil field is left untouched.
type FarmerUpdate struct {
	Name         *string
	Location     *string
	CropType     *string
	PhoneNumber  *string
	FarmSize     *float64
	AverageYield *float64
	Deactivated  *bool
}

// MsgNoFieldsToUpdate is the validation message for an update that sets no column.
const MsgNoFieldsToUpdate = "No fields to update"

// IsEmpty reports whether the update would change nothing.
func (u FarmerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Location == nil && u.CropType == nil && u.PhoneNumber == nil &&
		u.FarmSize == nil && u.AverageYield == nil && u.Deactivated == nil
}

// CropCount is the number of farmers registered for one crop type.
type CropCount struct {
	CropType string
	Count    int64
}
