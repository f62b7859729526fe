package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Prompt    string `validate:"required"`
	MaxTokens int    `validate:"omitempty,gte=1"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Prompt: "hello", MaxTokens: 10})
	assert.NoError(t, err)
}

func TestValidateStruct_MissingRequiredField(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	fields := GetValidationFields(err)
	require.Contains(t, fields, "Prompt")
	assert.Contains(t, fields["Prompt"], "required")
}

func TestValidateStruct_RangeTag(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Prompt: "hello", MaxTokens: -1})

	require.Error(t, err)
	fields := GetValidationFields(err)
	require.Contains(t, fields, "MaxTokens")
	assert.Contains(t, fields["MaxTokens"], "greater than or equal to 1")
}

func TestIsValidationError_OtherErrors(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.Nil(t, GetValidationFields(errors.New("boom")))
}
