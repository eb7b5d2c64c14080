package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Website string `json:"website" validate:"omitempty,url"`
	Status  string `json:"status" validate:"required,oneof=active inactive"`
	Hidden  string `json:"-" validate:"omitempty"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sampleInput{})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "The name field is required.", fields["name"])
	assert.Equal(t, "The email field is required.", fields["email"])
	assert.Equal(t, "The status field is required.", fields["status"])
	assert.NotContains(t, fields, "Name")
}

func TestFieldErrorsMessages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sampleInput{Name: "ok", Email: "nope", Website: "nope", Status: "other"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "The email must be a valid email address.", fields["email"])
	assert.Equal(t, "The website must be a valid URL.", fields["website"])
	assert.Equal(t, "The selected status is invalid.", fields["status"])
}

func TestFieldErrorsOnForeignError(t *testing.T) {
	fields := FieldErrors(assert.AnError)
	assert.Empty(t, fields)
}
