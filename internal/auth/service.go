package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/martlaane/organizer-backend/config"
	"github.com/martlaane/organizer-backend/utils"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID uint) error
	GetUserByID(userID uint) (User, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register
// =============================

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if _, err := s.repo.FindByUsername(req.Username); err == nil {
		return nil, errors.New("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       "active",
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// =============================
// Login
// =============================

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPair, *User, error) {
	user, err := s.repo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("invalid credentials")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	if user.Status == "inactive" {
		return nil, nil, errors.New("your account is inactive")
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}

	// Whitelist the refresh token so logout can revoke the session
	if err := utils.StoreRefreshToken(ctx, user.ID, refreshToken, s.refreshTTL); err != nil {
		return nil, nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, user, nil
}

// =============================
// Refresh / Logout
// =============================

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid refresh token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return "", errors.New("user_id missing in refresh token")
	}
	userID := uint(userIDFloat)

	if err := utils.ValidateRefreshToken(ctx, userID, refreshToken); err != nil {
		return "", errors.New("session expired, please log in again")
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return "", errors.New("user not found")
	}

	return s.generateAccessToken(&user)
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return utils.DeleteRefreshToken(ctx, userID)
}

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}
