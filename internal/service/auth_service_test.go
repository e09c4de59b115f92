package service

import (
	"testing"
	"time"

	"surety-web/internal/config"
	"surety-web/internal/models"
	"surety-web/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(store *fakeUserStore) (*AuthService, *config.Config) {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpire:     time.Hour,
		AdminMobileNo: "9898989898",
		AdminPassword: "admin-secret",
	}
	return NewAuthService(store, cfg), cfg
}

func TestLogin_AdminCredentialsIssueBootstrapToken(t *testing.T) {
	svc, cfg := newTestAuthService(newFakeUserStore())

	resp, err := svc.Login(models.LoginRequest{MobileNo: "9898989898", DOB: "admin-secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)

	claims, err := utils.ValidateToken(resp.Token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, 0, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_MemberWithDOBCredential(t *testing.T) {
	store := newFakeUserStore()
	userSvc := newTestUserService(store)
	created, err := userSvc.Create(models.UserRequest{
		FullName: "Anita Deshmukh",
		DOB:      "1992-06-14",
		MobileNo: "9876543210",
		Village:  "Nashik",
	})
	require.NoError(t, err)

	svc, cfg := newTestAuthService(store)
	resp, err := svc.Login(models.LoginRequest{MobileNo: "9876543210", DOB: "1992-06-14"})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.Role)

	claims, err := utils.ValidateToken(resp.Token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestLogin_WrongDOBRejected(t *testing.T) {
	store := newFakeUserStore()
	_, err := newTestUserService(store).Create(models.UserRequest{
		FullName: "A", DOB: "1990-01-01", MobileNo: "9876543210", Village: "Pune",
	})
	require.NoError(t, err)

	svc, _ := newTestAuthService(store)
	_, err = svc.Login(models.LoginRequest{MobileNo: "9876543210", DOB: "1991-01-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLogin_UnknownMobileRejected(t *testing.T) {
	svc, _ := newTestAuthService(newFakeUserStore())

	_, err := svc.Login(models.LoginRequest{MobileNo: "9000000000", DOB: "1990-01-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestValidateToken_WrongSecretRejected(t *testing.T) {
	svc, _ := newTestAuthService(newFakeUserStore())

	resp, err := svc.Login(models.LoginRequest{MobileNo: "9898989898", DOB: "admin-secret"})
	require.NoError(t, err)

	_, err = utils.ValidateToken(resp.Token, "other-secret")
	require.Error(t, err)
}
