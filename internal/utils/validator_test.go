package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	HouseholdID string `json:"household_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

func TestInvalidFieldsUseJSONNames(t *testing.T) {
	InitValidator()

	err := Validate.Struct(sampleRequest{HouseholdID: "nope"})
	require.Error(t, err)
	assert.Equal(t, []string{"household_id", "quantity"}, InvalidFields(err))

	assert.Nil(t, InvalidFields(nil))
}
