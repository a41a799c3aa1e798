package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Start  string `json:"start_time" validate:"required,clock"`
	Date   string `json:"date" validate:"omitempty,isodate"`
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sampleRequest{Start: "09:30", Date: "2024-06-03"}))

	errs := ValidateStruct(sampleRequest{Start: "9am", Date: "03-06-2024", Status: "done"})
	assert.Equal(t, "Must be a time in HH:MM format", errs["start_time"])
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", errs["date"])
	assert.Equal(t, "Must be one of: pending, confirmed", errs["status"])

	errs = ValidateStruct(sampleRequest{})
	assert.Equal(t, "This field is required", errs["start_time"])
}

func TestTrimOptional(t *testing.T) {
	blank := "   "
	note := "  bring water "

	assert.Nil(t, TrimOptional(nil))
	assert.Nil(t, TrimOptional(&blank))
	assert.Equal(t, "bring water", *TrimOptional(&note))
}
