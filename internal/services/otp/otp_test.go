package otp

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) SetOTP(ctx context.Context, userUID, code string, expiry time.Time) error {
	args := m.Called(ctx, userUID, code, expiry)
	return args.Error(0)
}

func (m *UserRepoMock) ClearOTP(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestGenerate_RangeAndWidth(t *testing.T) {
	svc := NewService(new(UserRepoMock), 10*time.Minute)

	for i := 0; i < 1000; i++ {
		code, err := svc.Generate()
		assert.NoError(t, err)
		assert.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssue_StoresCodeWithTTL(t *testing.T) {
	repo := new(UserRepoMock)
	svc := NewService(repo, 10*time.Minute)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user := &models.User{UID: "user-uid"}
	wantExpiry := fixed.Add(10 * time.Minute)
	repo.On("SetOTP", mock.Anything, "user-uid", mock.AnythingOfType("string"), wantExpiry).Return(nil).Once()

	code, err := svc.Issue(context.Background(), user)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	if assert.NotNil(t, user.OTPCode) {
		assert.Equal(t, code, *user.OTPCode)
	}
	if assert.NotNil(t, user.OTPExpiry) {
		assert.Equal(t, wantExpiry, *user.OTPExpiry)
	}
	repo.AssertExpectations(t)
}

func TestIssue_OverwritesPreviousCode(t *testing.T) {
	repo := new(UserRepoMock)
	svc := NewService(repo, 10*time.Minute)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	old := "111111"
	user := &models.User{
		UID:       "user-uid",
		OTPCode:   &old,
		OTPExpiry: timePtr(fixed.Add(5 * time.Minute)),
	}
	repo.On("SetOTP", mock.Anything, "user-uid", mock.AnythingOfType("string"), fixed.Add(10*time.Minute)).Return(nil).Once()

	code, err := svc.Issue(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, code, *user.OTPCode)
	assert.Equal(t, fixed.Add(10*time.Minute), *user.OTPExpiry)
	repo.AssertExpectations(t)
}

func TestIssue_StorageError(t *testing.T) {
	repo := new(UserRepoMock)
	svc := NewService(repo, 10*time.Minute)
	repo.On("SetOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("db error")).Once()

	user := &models.User{UID: "user-uid"}
	_, err := svc.Issue(context.Background(), user)
	assert.Error(t, err)
	assert.Nil(t, user.OTPCode)
	assert.Nil(t, user.OTPExpiry)
}

func TestValidate(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		user        *models.User
		supplied    string
		setupMocks  func(r *UserRepoMock)
		wantOutcome Outcome
	}{
		{
			name:        "no otp pending",
			user:        &models.User{UID: "user-uid"},
			supplied:    "123456",
			setupMocks:  func(_ *UserRepoMock) {},
			wantOutcome: OutcomeNoOTPPending,
		},
		{
			name: "valid code",
			user: &models.User{
				UID:       "user-uid",
				OTPCode:   strPtr("123456"),
				OTPExpiry: timePtr(fixed.Add(time.Minute)),
			},
			supplied:    "123456",
			setupMocks:  func(_ *UserRepoMock) {},
			wantOutcome: OutcomeValid,
		},
		{
			name: "code at exact expiry instant is still valid",
			user: &models.User{
				UID:       "user-uid",
				OTPCode:   strPtr("123456"),
				OTPExpiry: timePtr(fixed),
			},
			supplied:    "123456",
			setupMocks:  func(_ *UserRepoMock) {},
			wantOutcome: OutcomeValid,
		},
		{
			name: "expired code is cleared",
			user: &models.User{
				UID:       "user-uid",
				OTPCode:   strPtr("123456"),
				OTPExpiry: timePtr(fixed.Add(-time.Second)),
			},
			supplied: "123456",
			setupMocks: func(r *UserRepoMock) {
				r.On("ClearOTP", mock.Anything, "user-uid").Return(nil).Once()
			},
			wantOutcome: OutcomeExpired,
		},
		{
			name: "mismatched code",
			user: &models.User{
				UID:       "user-uid",
				OTPCode:   strPtr("123456"),
				OTPExpiry: timePtr(fixed.Add(time.Minute)),
			},
			supplied:    "654321",
			setupMocks:  func(_ *UserRepoMock) {},
			wantOutcome: OutcomeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := NewService(repo, 10*time.Minute)
			svc.now = func() time.Time { return fixed }
			tt.setupMocks(repo)

			outcome, err := svc.Validate(context.Background(), tt.user, tt.supplied)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
			repo.AssertExpectations(t)
		})
	}
}

func TestValidate_ExpiredThenNoOTPPending(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := new(UserRepoMock)
	svc := NewService(repo, 10*time.Minute)
	svc.now = func() time.Time { return fixed }

	user := &models.User{
		UID:       "user-uid",
		OTPCode:   strPtr("123456"),
		OTPExpiry: timePtr(fixed.Add(-time.Minute)),
	}
	repo.On("ClearOTP", mock.Anything, "user-uid").Return(nil).Once()

	outcome, err := svc.Validate(context.Background(), user, "123456")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeExpired, outcome)
	assert.Nil(t, user.OTPCode)
	assert.Nil(t, user.OTPExpiry)

	// Повторная проверка без новой выдачи
	outcome, err = svc.Validate(context.Background(), user, "123456")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNoOTPPending, outcome)
	repo.AssertExpectations(t)
}

func TestValidate_ValidDoesNotMutate(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := new(UserRepoMock)
	svc := NewService(repo, 10*time.Minute)
	svc.now = func() time.Time { return fixed }

	expiry := fixed.Add(time.Minute)
	user := &models.User{
		UID:       "user-uid",
		OTPCode:   strPtr("123456"),
		OTPExpiry: &expiry,
	}

	outcome, err := svc.Validate(context.Background(), user, "123456")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeValid, outcome)
	assert.NotNil(t, user.OTPCode)
	assert.NotNil(t, user.OTPExpiry)
	repo.AssertNotCalled(t, "ClearOTP", mock.Anything, mock.Anything)
}
