// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/geomarket/internal/config"
	"github.com/javajoker/geomarket/internal/models"
	"github.com/javajoker/geomarket/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type UserRegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type MerchantRegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // in seconds
	UserID      uint   `json:"user_id"`
}

type MerchantAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // in seconds
	MerchantID  uint   `json:"merchant_id"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) RegisterUser(ctx context.Context, req *UserRegisterRequest) (*UserAuthResponse, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issue(user.ID, models.RoleUser)
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return &UserAuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
		UserID:      user.ID,
	}, nil
}

func (s *AuthService) SignInUser(ctx context.Context, req *SignInRequest) (*UserAuthResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	token, err := s.issue(user.ID, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return &UserAuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
		UserID:      user.ID,
	}, nil
}

func (s *AuthService) RegisterMerchant(ctx context.Context, req *MerchantRegisterRequest) (*MerchantAuthResponse, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Merchant{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrMerchantExists
	}

	merchant := &models.Merchant{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := merchant.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Create(merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMerchantExists
		}
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	token, err := s.issue(merchant.ID, models.RoleMerchant)
	if err != nil {
		return nil, err
	}

	logrus.WithField("merchant_id", merchant.ID).Info("Merchant registered")
	return &MerchantAuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
		MerchantID:  merchant.ID,
	}, nil
}

func (s *AuthService) SignInMerchant(ctx context.Context, req *SignInRequest) (*MerchantAuthResponse, error) {
	db := s.db.WithContext(ctx)

	var merchant models.Merchant
	if err := db.Where("email = ?", req.Email).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := merchant.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&merchant).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("merchant_id", merchant.ID).Warn("Failed to record last login")
	}

	token, err := s.issue(merchant.ID, models.RoleMerchant)
	if err != nil {
		return nil, err
	}
	return &MerchantAuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
		MerchantID:  merchant.ID,
	}, nil
}

func (s *AuthService) issue(subjectID uint, role models.Role) (string, error) {
	token, err := utils.GenerateJWT(subjectID, string(role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}
