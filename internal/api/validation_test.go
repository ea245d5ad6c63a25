package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Quantity int    `validate:"gt=0,lte=10"`
	Plan     string `validate:"oneof=monthly annual"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{
			Email:    "user@example.com",
			Password: "supersecret",
			Quantity: 3,
			Plan:     "monthly",
		})
		assert.Empty(t, errs)
	})

	t.Run("collects all failures", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{
			Email:    "not-an-email",
			Password: "short",
			Quantity: 0,
			Plan:     "weekly",
		})
		require.Len(t, errs, 4)

		byField := map[string]ValidationError{}
		for _, e := range errs {
			byField[e.Field] = e
		}

		assert.Equal(t, "email", byField["Email"].Tag)
		assert.Equal(t, "Password must be at least 8 characters", byField["Password"].Message)
		assert.Equal(t, "Quantity must be greater than 0", byField["Quantity"].Message)
		assert.Equal(t, "Plan must be one of: monthly annual", byField["Plan"].Message)
	})

	t.Run("missing required field", func(t *testing.T) {
		errs := ValidateStruct(sampleRequest{Quantity: 1, Plan: "annual"})
		require.NotEmpty(t, errs)
		assert.Equal(t, "Email is required", errs[0].Message)
	})
}

func TestRespondWithValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationErrors(c, []ValidationError{
		{Field: "Email", Tag: "email", Message: "Email must be a valid email address"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
	assert.Contains(t, w.Body.String(), "Email must be a valid email address")
}
