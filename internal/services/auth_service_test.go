package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/crm-backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		SuperAdminEmails: "Boss@Example.com",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: " Ann@Example.com ", Password: "password1", FullName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", resp.User.ID).Error)
	assert.Equal(t, "Ann", profile.FullName)
	assert.Equal(t, models.RoleUser, profile.Role)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "ann@example.com", claims["email"])
}

func TestRegisterBootstrapsSuperAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "boss@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, resp.User.Role)
}

func TestRegisterRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, services.ErrWeakCredentials)

	_, err = svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(&dto.RegisterRequest{Email: "A@example.com", Password: "password1"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginRefreshLogout(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	login, err := svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken, "refresh tokens are single use")

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: refreshed.RefreshToken}))
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestDeleteAccountRemovesOwnedRows(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	leads := store.NewLeadStore(db)
	require.NoError(t, leads.Create(ctx, resp.User.ID, &models.Lead{Name: "Acme"}))

	assert.ErrorIs(t, svc.DeleteAccount(resp.User.ID, ""), services.ErrPasswordRequired)
	assert.ErrorIs(t, svc.DeleteAccount(resp.User.ID, "nope-nope"), services.ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(resp.User.ID, "password1"))

	rows, err := leads.List(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var count int64
	db.Model(&models.Profile{}).Where("id = ?", resp.User.ID).Count(&count)
	assert.Zero(t, count)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestConcurrentRefreshSucceedsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewAuthService(db, testConfig())

	reg, err := svc.Register(&dto.RegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	var wins, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, services.ErrInvalidToken):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), rejected.Load())
}
