package validateotp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ValidateOTP(ctx context.Context, email, suppliedCode string) error {
	args := m.Called(ctx, email, suppliedCode)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestValidateOTPHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		serviceErr     error
		skipService    bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - otp valid",
			requestBody:    Request{Email: "test@example.com", OTP: "123456"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":{"message":"OTP validated successfully."}}`,
		},
		{
			name:           "missing otp",
			requestBody:    Request{Email: "test@example.com"},
			skipService:    true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Email and OTP are required.","statusCode":400}}`,
		},
		{
			name:           "user not found",
			requestBody:    Request{Email: "missing@example.com", OTP: "123456"},
			serviceErr:     auth.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"error":{"message":"User not found.","statusCode":404}}`,
		},
		{
			name:           "no otp pending",
			requestBody:    Request{Email: "test@example.com", OTP: "123456"},
			serviceErr:     auth.ErrNoOTPPending,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"No OTP found for this user. Please request a new one.","statusCode":400}}`,
		},
		{
			name:           "otp expired",
			requestBody:    Request{Email: "test@example.com", OTP: "123456"},
			serviceErr:     auth.ErrOTPExpired,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"OTP has expired. Please request a new one.","statusCode":400}}`,
		},
		{
			name:           "otp mismatch",
			requestBody:    Request{Email: "test@example.com", OTP: "654321"},
			serviceErr:     auth.ErrOTPMismatch,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Invalid OTP. Please try again.","statusCode":400}}`,
		},
		{
			name:           "storage failure",
			requestBody:    Request{Email: "test@example.com", OTP: "123456"},
			serviceErr:     errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":{"message":"Server error while validating OTP.","statusCode":500}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if !tt.skipService {
				service.On("ValidateOTP", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.serviceErr).Once()
			}
			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/validate-otp", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			service.AssertExpectations(t)
		})
	}
}
