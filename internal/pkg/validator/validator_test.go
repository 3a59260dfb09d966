package validator_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/validator"
)

type markerForm struct {
	Title string  `json:"title" validate:"required,max=10"`
	Lat   float64 `json:"lat" validate:"min=-90,max=90"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, validator.Validate(&markerForm{Title: "ok", Lat: 10}))

	err := validator.Validate(&markerForm{Lat: 91})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidRequest))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "required", appErr.Details["title"])
	assert.Equal(t, "max", appErr.Details["lat"])
}

func TestValidateAs(t *testing.T) {
	err := validator.ValidateAs(&markerForm{}, errors.ErrInvalidMarker)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidMarker))
}
