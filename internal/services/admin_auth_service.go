package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/flight-route-backend/internal/config"
	"github.com/smarttransit/flight-route-backend/internal/models"
	"github.com/smarttransit/flight-route-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminRole is granted to every authenticated admin
const AdminRole = "admin"

// ErrInvalidCredentials is returned for a wrong username or password
var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminAuthService handles admin authentication business logic
type AdminAuthService struct {
	username     string
	passwordHash []byte
	jwtService   *jwt.Service
	logger       *logrus.Logger
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(cfg config.AdminConfig, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Login authenticates the admin and returns an access token
func (s *AdminAuthService) Login(req *models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1

	// bcrypt runs for unknown usernames too
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		s.logger.WithField("username", req.Username).Warn("Admin login failed")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateToken(s.username, []string{AdminRole})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.WithField("username", s.username).Info("Admin logged in")

	return &models.AdminLoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtService.Expiry().Seconds()),
		Username:    s.username,
	}, nil
}
