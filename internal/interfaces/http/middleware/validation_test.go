package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationPayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=10"`
	Role  string `json:"role" validate:"required,oneof=ADMIN MANAGER CASHIER"`
	Age   int    `json:"age" validate:"gte=18"`
}

func newStandaloneValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	return v
}

func TestValidationDetails(t *testing.T) {
	v := newStandaloneValidator()

	t.Run("collects one detail per invalid field", func(t *testing.T) {
		err := v.Struct(validationPayload{
			Email: "not-an-email",
			Name:  "x",
			Role:  "ROOT",
			Age:   12,
		})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		require.Len(t, details, 4)

		messages := map[string]string{}
		for _, d := range details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", messages["email"])
		assert.Equal(t, "Must be at least 2 characters", messages["name"])
		assert.Equal(t, "Must be one of: ADMIN MANAGER CASHIER", messages["role"])
		assert.Equal(t, "Must be greater than or equal to 18", messages["age"])
	})

	t.Run("required fields", func(t *testing.T) {
		err := v.Struct(validationPayload{Age: 30})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		for _, d := range details {
			assert.Equal(t, "This field is required", d.Message)
		}
	})

	t.Run("field names come from json tags", func(t *testing.T) {
		err := v.Struct(validationPayload{Email: "a@b.test", Name: "ok", Role: "ADMIN", Age: 10})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		require.Len(t, details, 1)
		assert.Equal(t, "age", details[0].Field)
	})

	t.Run("non validation errors pass through", func(t *testing.T) {
		details, ok := ValidationDetails(errors.New("unexpected EOF"))
		assert.False(t, ok)
		assert.Nil(t, details)
	})
}
