package service

import (
	"errors"

	"surety-web/internal/config"
	"surety-web/internal/models"
	"surety-web/internal/utils"
)

type AuthService struct {
	userRepo UserStore
	cfg      *config.Config
}

func NewAuthService(userRepo UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Login authenticates by mobile number and date of birth. The configured
// admin credential pair issues an admin token with no user row behind it;
// everyone else is looked up and bcrypt-compared.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if req.MobileNo == s.cfg.AdminMobileNo && req.DOB == s.cfg.AdminPassword {
		token, err := utils.GenerateToken(0, "admin", s.cfg.JWTSecret, s.cfg.JWTExpire)
		if err != nil {
			return nil, errors.New("failed to generate token")
		}
		return &models.LoginResponse{Token: token, Role: "admin"}, nil
	}

	user, err := s.userRepo.FindByMobileNo(req.MobileNo)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !utils.CheckPasswordHash(req.DOB, user.PasswordHash) {
		return nil, errors.New("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.cfg.JWTSecret, s.cfg.JWTExpire)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &models.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *AuthService) GetUserByID(id int) (*models.User, error) {
	return s.userRepo.FindByID(id)
}
