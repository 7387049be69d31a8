package login

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

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword, expectedRole string) (string, *models.User, error) {
	args := m.Called(ctx, email, rawPassword, expectedRole)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	testUser := &models.User{
		UID:      "user-uid",
		Username: "testuser",
		Email:    "test@example.com",
		Role:     models.RoleBuyer,
		Phone:    "+201000000000",
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(s *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success - token and public user returned",
			requestBody: Request{Email: "test@example.com", Password: "password123"},
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "test@example.com", "password123", "").
					Return("jwt-token", testUser, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"data":{"message":"Login successful","token":"jwt-token",` +
				`"user":{"id":"user-uid","username":"testuser","email":"test@example.com","role":"buyer","phone":"+201000000000"}}}`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Email and password are required.","statusCode":400}}`,
		},
		{
			name:           "missing password",
			requestBody:    Request{Email: "test@example.com"},
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":{"message":"Email and password are required.","statusCode":400}}`,
		},
		{
			name:        "user not found",
			requestBody: Request{Email: "missing@example.com", Password: "password123"},
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "missing@example.com", "password123", "").
					Return("", nil, auth.ErrUserNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"error":{"message":"User not found.","statusCode":404}}`,
		},
		{
			name:        "wrong password",
			requestBody: Request{Email: "test@example.com", Password: "wrongpassword"},
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "test@example.com", "wrongpassword", "").
					Return("", nil, auth.ErrInvalidCredentials).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"success":false,"error":{"message":"Invalid credentials.","statusCode":401}}`,
		},
		{
			name:        "role mismatch",
			requestBody: Request{Email: "test@example.com", Password: "password123", ExpectedRole: "admin"},
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, "test@example.com", "password123", "admin").
					Return("", nil, &auth.RoleMismatchError{Role: "buyer"}).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"success":false,"error":{"message":"Access denied for role: buyer","statusCode":403}}`,
		},
		{
			name:        "storage failure",
			requestBody: Request{Email: "test@example.com", Password: "password123"},
			setupMocks: func(s *MockService) {
				s.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":{"message":"Server error during login.","statusCode":500}}`,
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

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			service.AssertExpectations(t)
		})
	}
}
