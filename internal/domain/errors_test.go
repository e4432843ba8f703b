package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/agrodesk/farmers-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		kind domain.Kind
	}{
		{"validation", domain.NewValidationError("Missing required fields"), http.StatusBadRequest, domain.KindValidation},
		{"not found", domain.NewNotFoundError("Farmer not found"), http.StatusNotFound, domain.KindNotFound},
		{"storage", domain.NewStorageError(errors.New("no such table: farmers")), http.StatusInternalServerError, domain.KindStorage},
		{"wrapped", fmt.Errorf("list: %w", domain.NewNotFoundError("gone")), http.StatusNotFound, domain.KindNotFound},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, domain.KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.StatusCode(tt.err))
			assert.Equal(t, tt.kind, domain.KindOf(tt.err))
		})
	}
}

func TestStorageErrorKeepsMessage(t *testing.T) {
	cause := errors.New("database is locked")
	err := domain.NewStorageError(cause)

	assert.Equal(t, "database is locked", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestFarmerUpdateIsEmpty(t *testing.T) {
	assert.True(t, domain.FarmerUpdate{}.IsEmpty())

	deactivated := false
	assert.False(t, domain.FarmerUpdate{Deactivated: &deactivated}.IsEmpty())

	size := 0.0
	assert.False(t, domain.FarmerUpdate{FarmSize: &size}.IsEmpty())
}

func TestYieldRecordValidate(t *testing.T) {
	assert.NoError(t, domain.YieldRecord{Date: "2023-04-01", YieldKgPerHectare: 0}.Validate())
	assert.Error(t, domain.YieldRecord{Date: "01/04/2023", YieldKgPerHectare: 10}.Validate())
	assert.Error(t, domain.YieldRecord{Date: "2023-02-30", YieldKgPerHectare: 10}.Validate())
	assert.Error(t, domain.YieldRecord{Date: "2023-04-01", YieldKgPerHectare: -1}.Validate())

	err := domain.YieldRecord{Date: "bad"}.Validate()
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
