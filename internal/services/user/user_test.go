package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/services/user"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *RepoMock) DeleteUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *RepoMock) AddFavourite(ctx context.Context, userUID, propertyUID string) (string, error) {
	args := m.Called(ctx, userUID, propertyUID)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) RemoveFavourite(ctx context.Context, userUID, propertyUID string) error {
	args := m.Called(ctx, userUID, propertyUID)
	return args.Error(0)
}

func (m *RepoMock) ListFavourites(ctx context.Context, userUID string) ([]models.FavouriteEntry, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FavouriteEntry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func storedUser(t *testing.T) *models.User {
	t.Helper()
	hashed, err := password.GetHash("currentpassword")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return &models.User{
		UID:          "target-uid",
		Username:     "target",
		Email:        "target@example.com",
		PasswordHash: hashed,
		Role:         models.RoleBuyer,
	}
}

func TestList_StripsSensitiveFields(t *testing.T) {
	repo := new(RepoMock)
	svc := user.NewService(repo, newNoopLogger())

	code := "123456"
	repo.On("ListUsers", mock.Anything).Return([]*models.User{
		{UID: "uid-1", Username: "first", PasswordHash: "hash", OTPCode: &code},
		{UID: "uid-2", Username: "second"},
	}, nil).Once()

	users, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "first", users[0].Username)
	repo.AssertExpectations(t)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name      string
		actorUID  string
		actorRole string
		req       user.UpdateRequest
		wantErr   error
	}{
		{
			name:      "self update",
			actorUID:  "target-uid",
			actorRole: models.RoleBuyer,
			req:       user.UpdateRequest{Username: "renamed"},
		},
		{
			name:      "admin updates another user",
			actorUID:  "admin-uid",
			actorRole: models.RoleAdmin,
			req:       user.UpdateRequest{Username: "renamed"},
		},
		{
			name:      "stranger cannot update",
			actorUID:  "other-uid",
			actorRole: models.RoleBuyer,
			req:       user.UpdateRequest{Username: "renamed"},
			wantErr:   user.ErrNotAllowed,
		},
		{
			name:      "only admin changes role",
			actorUID:  "target-uid",
			actorRole: models.RoleBuyer,
			req:       user.UpdateRequest{Role: models.RoleBroker},
			wantErr:   user.ErrNotAllowed,
		},
		{
			name:      "password change with valid current password",
			actorUID:  "target-uid",
			actorRole: models.RoleBuyer,
			req:       user.UpdateRequest{Password: "currentpassword", NewPassword: "newpassword"},
		},
		{
			name:      "password change with wrong current password",
			actorUID:  "target-uid",
			actorRole: models.RoleBuyer,
			req:       user.UpdateRequest{Password: "wrongpassword", NewPassword: "newpassword"},
			wantErr:   user.ErrWrongPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := user.NewService(repo, newNoopLogger())

			repo.On("GetUser", mock.Anything, "target-uid").Return(storedUser(t), nil).Once()
			if tt.wantErr == nil {
				repo.On("UpdateUser", mock.Anything, mock.Anything).Return(nil).Once()
			}

			_, err := svc.Update(context.Background(), tt.actorUID, tt.actorRole, "target-uid", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdate_DuplicateIdentity(t *testing.T) {
	repo := new(RepoMock)
	svc := user.NewService(repo, newNoopLogger())

	repo.On("GetUser", mock.Anything, "target-uid").Return(storedUser(t), nil).Once()
	repo.On("UpdateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

	_, err := svc.Update(context.Background(), "target-uid", models.RoleBuyer, "target-uid",
		user.UpdateRequest{Email: "taken@example.com"})
	assert.ErrorIs(t, err, user.ErrDuplicateIdentity)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		actorUID  string
		actorRole string
		wantErr   error
	}{
		{name: "admin deletes user", actorUID: "admin-uid", actorRole: models.RoleAdmin},
		{name: "self delete rejected", actorUID: "target-uid", actorRole: models.RoleAdmin, wantErr: user.ErrSelfDelete},
		{name: "non-admin rejected", actorUID: "other-uid", actorRole: models.RoleBuyer, wantErr: user.ErrNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := user.NewService(repo, newNoopLogger())
			if tt.wantErr == nil {
				repo.On("DeleteUser", mock.Anything, "target-uid").Return(nil).Once()
			}

			err := svc.Delete(context.Background(), tt.actorUID, tt.actorRole, "target-uid")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAddFavourite_Duplicate(t *testing.T) {
	repo := new(RepoMock)
	svc := user.NewService(repo, newNoopLogger())

	repo.On("AddFavourite", mock.Anything, "user-uid", "property-uid").
		Return("", repository.ErrDuplicateFavourite).Once()

	err := svc.AddFavourite(context.Background(), "user-uid", "property-uid")
	assert.ErrorIs(t, err, user.ErrAlreadyFavourite)
}
