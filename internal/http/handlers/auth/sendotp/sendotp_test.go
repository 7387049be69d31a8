package sendotp

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

func (m *MockService) SendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSendOTPHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		serviceErr     error
		skipService    bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - code sent",
			requestBody:    Request{Email: "test@example.com"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":{"message":"Verification code sent successfully.","email":"test@example.com"}}`,
		},
		{
			name:           "missing email",
			requestBody:    Request{},
			skipService:    true,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Email is required.","statusCode":400}}`,
		},
		{
			name:           "user not found",
			requestBody:    Request{Email: "missing@example.com"},
			serviceErr:     auth.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"error":{"message":"User not found.","statusCode":404}}`,
		},
		{
			name:        "delivery failure carries classified message",
			requestBody: Request{Email: "test@example.com"},
			serviceErr: &auth.DeliveryError{
				Message: "Could not connect to email server. Please check your internet connection.",
				Err:     errors.New("dial tcp: connection refused"),
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":{"message":"Could not connect to email server. Please check your internet connection.","statusCode":500}}`,
		},
		{
			name:           "issue failure",
			requestBody:    Request{Email: "test@example.com"},
			serviceErr:     errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":{"message":"Server error while processing OTP request.","statusCode":500}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if !tt.skipService {
				service.On("SendOTP", mock.Anything, mock.Anything).Return(tt.serviceErr).Once()
			}
			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/validateUserAndSendOtp", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			service.AssertExpectations(t)
		})
	}
}
