package domain

import (
	"fmt"
	"time"
)

// YieldDateLayout is the storage format of yield dates. Lexical order equals date order.
const YieldDateLayout = "2006-01-02"

// YieldRecord is one historical yield observation / Une observation historique de rendement
type YieldRecord struct {
	Date              string
	YieldKgPerHectare float64
}

// Validate checks the record before it is written to the yield history.
func (y YieldRecord) Validate() error {
	if _, err := time.Parse(YieldDateLayout, y.Date); err != nil {
		return NewValidationError(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", y.Date))
	}
	if y.YieldKgPerHectare < 0 {
		return NewValidationError(fmt.Sprintf("negative yield %v on %s", y.YieldKgPerHectare, y.Date))
	}
	return nil
}
