package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title  string  `json:"title" validate:"required,max=5"`
	Email  string  `json:"email" validate:"omitempty,email"`
	Status string  `json:"status" validate:"omitempty,oneof=reading completed"`
	Cover  *string `json:"cover_url" validate:"omitempty,url"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sample{Title: "Dune"}))

	bad := "not a url"
	details := ValidateStruct(sample{Title: "Too long title", Email: "x", Status: "lost", Cover: &bad})
	require.Len(t, details, 4)

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "cover_url")
}

func TestValidateStruct_Required(t *testing.T) {
	details := ValidateStruct(&sample{})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
}
