package service

import (
	"context"
	"testing"
	"time"

	"collabnote-be/internal/dto"
	"collabnote-be/internal/pkg/apperror"
	"collabnote-be/internal/repository/memory"
	"collabnote-be/internal/testutils"

	"github.com/stretchr/testify/assert"
)

func newAuthServiceForTest(uow *testutils.MemoryUnitOfWork) IAuthService {
	sessions := memory.NewSessionRepository(time.Hour)
	return NewAuthService(uow.Factory(), sessions, "test-secret", time.Hour, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newAuthServiceForTest(uow)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		FullName: "Dev User",
		Password: "sup3rsecret",
	})
	assert.NoError(t, err)

	// Duplicate email is rejected.
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		FullName: "Other",
		Password: "whatever123",
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "sup3rsecret",
	})
	assert.NoError(t, err)
	assert.Equal(t, registered.Id, login.UserId)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "wrong",
	})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "sup3rsecret",
	})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestRefreshAndLogout(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	svc := newAuthServiceForTest(uow)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		FullName: "Dev User",
		Password: "sup3rsecret",
	})
	assert.NoError(t, err)

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "sup3rsecret",
	})
	assert.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	assert.NoError(t, svc.Logout(ctx, login.RefreshToken))

	// The revoked token no longer refreshes.
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	// Logging out twice is harmless.
	assert.NoError(t, svc.Logout(ctx, login.RefreshToken))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestUserShowAndUpdateProfile(t *testing.T) {
	uow := testutils.NewMemoryUnitOfWork()
	authSvc := newAuthServiceForTest(uow)
	userSvc := NewUserService(uow.Factory())
	ctx := context.Background()

	registered, err := authSvc.Register(ctx, &dto.RegisterRequest{
		Email:    "dev@example.com",
		FullName: "Dev User",
		Password: "sup3rsecret",
	})
	assert.NoError(t, err)

	profile, err := userSvc.Show(ctx, registered.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Dev User", profile.FullName)

	updated, err := userSvc.UpdateProfile(ctx, registered.Id, &dto.UpdateUserRequest{FullName: "Renamed"})
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, "dev@example.com", updated.Email)
}
