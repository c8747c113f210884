package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"message": "done"})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"message": "done"}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Name     string `validate:"required,min=2,max=100"`
		Email    string `validate:"required,email"`
		Role     string `validate:"omitempty,oneof=user admin"`
		Password string `validate:"required,min=6"`
	}

	validate := validator.New()

	tests := []struct {
		name  string
		input form
		want  string
	}{
		{
			name:  "single required violation",
			input: form{Name: "al", Email: "a@b.com", Password: ""},
			want:  "field Password is a required field",
		},
		{
			name:  "malformed email",
			input: form{Name: "al", Email: "not-an-email", Password: "secret1"},
			want:  "field Email must be a valid email address",
		},
		{
			name:  "value below minimum",
			input: form{Name: "a", Email: "a@b.com", Password: "secret1"},
			want:  "field Name is shorter than the allowed minimum",
		},
		{
			name:  "value not in allowed set",
			input: form{Name: "al", Email: "a@b.com", Role: "root", Password: "secret1"},
			want:  "field Role must be one of the allowed values",
		},
		{
			name:  "multiple violations joined with comma",
			input: form{Name: "", Email: "not-an-email", Password: "secret1"},
			want:  "field Name is a required field, field Email must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}
