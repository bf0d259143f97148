package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title  string `json:"title" validate:"required,max=5"`
	Status string `json:"status" validate:"omitempty,oneof=pending completed"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(&sampleRequest{Title: "ok", Status: "pending"}))

	err := ValidateStruct(&sampleRequest{Title: "", Status: "done", Email: "nope"})
	require.Error(t, err)

	details := GetValidationErrors(err)
	assert.Equal(t, "title is required", details["title"])
	assert.Equal(t, "status must be one of: pending completed", details["status"])
	assert.Equal(t, "email must be a valid email", details["email"])
}

func TestValidateStructMax(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Title: "too long"})
	require.Error(t, err)
	assert.Equal(t, "title must be at most 5 characters", GetValidationErrors(err)["title"])
}

func TestGetValidationErrorsNonValidator(t *testing.T) {
	details := GetValidationErrors(errors.New("boom"))
	assert.Equal(t, "boom", details["_"])
}

func TestValidateStructNotBlank(t *testing.T) {
	type titled struct {
		Title string `json:"title" validate:"required,notblank"`
		Note  string `json:"note" validate:"omitempty,notblank"`
	}

	tests := []struct {
		name    string
		req     titled
		wantErr map[string]string
	}{
		{"text", titled{Title: "Buy milk"}, nil},
		{"spaces only", titled{Title: "   "}, map[string]string{"title": "title must not be blank"}},
		{"tabs and newlines", titled{Title: "\t\n "}, map[string]string{"title": "title must not be blank"}},
		{"optional blank", titled{Title: "ok", Note: "  "}, map[string]string{"note": "note must not be blank"}},
		{"optional empty", titled{Title: "ok"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, GetValidationErrors(err))
		})
	}
}
