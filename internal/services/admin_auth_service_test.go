package services

import (
	"testing"
	"time"

	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAdminAuthService(t *testing.T) (*AdminAuthService, *jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewService("admin-test-secret", 30*time.Minute)
	cfg := config.AdminConfig{Username: "ops", PasswordHash: string(hash)}
	return NewAdminAuthService(cfg, jwtService, testLogger()), jwtService
}

func TestAdminLogin_Success(t *testing.T) {
	service, jwtService := newTestAdminAuthService(t)

	resp, err := service.Login(&models.AdminLoginRequest{Username: "ops", Password: "correct-horse"})
	require.NoError(t, err)

	assert.Equal(t, "ops", resp.Username)
	assert.Equal(t, int64(1800), resp.ExpiresIn)

	claims, err := jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)
	assert.True(t, claims.HasRole(AdminRole))
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	service, _ := newTestAdminAuthService(t)

	tests := []struct {
		name string
		req  models.AdminLoginRequest
	}{
		{"Wrong password", models.AdminLoginRequest{Username: "ops", Password: "battery-staple"}},
		{"Wrong username", models.AdminLoginRequest{Username: "root", Password: "correct-horse"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			resp, err := service.Login(&req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, resp)
		})
	}
}
