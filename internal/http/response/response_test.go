package response_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
)

func TestOK(t *testing.T) {
	resp := response.OK(map[string]any{"message": "done"})

	raw, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"message":"done"}}`, string(raw))
}

func TestError(t *testing.T) {
	resp := response.Error("User not found.", http.StatusNotFound)

	raw, err := json.Marshal(resp)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"message":"User not found.","statusCode":404}}`, string(raw))
}

func TestValidationError(t *testing.T) {
	type form struct {
		Email           string `validate:"required,email"`
		Password        string `validate:"required"`
		ConfirmPassword string `validate:"eqfield=Password"`
	}

	err := validator.New().Struct(form{Email: "not-an-email", Password: "secret", ConfirmPassword: "other"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)

	resp := response.ValidationError(errs)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusBadRequest, resp.Error.StatusCode)
	assert.Contains(t, resp.Error.Message, "field Email must be a valid email")
	assert.Contains(t, resp.Error.Message, "field ConfirmPassword must match field Password")
}
