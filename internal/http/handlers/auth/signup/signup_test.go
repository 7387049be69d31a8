package signup

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

func (m *MockService) Signup(ctx context.Context, username, email, rawPassword, phone, role string) (string, error) {
	args := m.Called(ctx, username, email, rawPassword, phone, role)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	validBody := Request{
		Username:        "testuser",
		Email:           "test@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Phone:           "+201000000000",
		Role:            "buyer",
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success - user created",
			requestBody: validBody,
			setupMocks: func(s *MockService) {
				s.On("Signup", mock.Anything, "testuser", "test@example.com", "password123", "+201000000000", "buyer").
					Return("some-uuid-string", nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"success":true,"data":{"message":"User created successfully."}}`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"All fields are required.","statusCode":400}}`,
		},
		{
			name: "passwords do not match",
			requestBody: Request{
				Username:        "testuser",
				Email:           "test@example.com",
				Password:        "password123",
				ConfirmPassword: "different",
				Phone:           "+201000000000",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Passwords do not match.","statusCode":400}}`,
		},
		{
			name: "missing email",
			requestBody: Request{
				Username:        "testuser",
				Password:        "password123",
				ConfirmPassword: "password123",
				Phone:           "+201000000000",
			},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"field Email is a required field","statusCode":400}}`,
		},
		{
			name:        "email already in use",
			requestBody: validBody,
			setupMocks: func(s *MockService) {
				s.On("Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", auth.ErrEmailTaken).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":{"message":"Email already in use.","statusCode":409}}`,
		},
		{
			name:        "username already taken",
			requestBody: validBody,
			setupMocks: func(s *MockService) {
				s.On("Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", auth.ErrUsernameTaken).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":{"message":"Username already taken. Please choose a different one.","statusCode":409}}`,
		},
		{
			name:        "storage failure",
			requestBody: validBody,
			setupMocks: func(s *MockService) {
				s.On("Signup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":{"message":"Server error while creating user.","statusCode":500}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				assert.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			service.AssertExpectations(t)
		})
	}
}
