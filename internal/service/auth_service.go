package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/middleware"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/openwrench/garagehub/internal/config"
)

// refreshKeyPrefix refresh token jti 在Redis里的key前缀
const refreshKeyPrefix = "token:refresh:"

// AuthService 认证服务：门店编码+登录ID+密码
type AuthService struct {
	userRepo   *repository.UserRepository
	garageRepo *repository.GarageRepository
	rdb        *redis.Client
	cfg        *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, garageRepo *repository.GarageRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		garageRepo: garageRepo,
		rdb:        rdb,
		cfg:        cfg,
	}
}

// TokenPair Token对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	GarageCode string `json:"garage_code" binding:"required"`
	LoginID    string `json:"login_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login 登录。账号不存在和密码错误统一返回ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*entity.User, *TokenPair, error) {
	garage, err := s.garageRepo.FindByCode(ctx, req.GarageCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find garage: %w", err)
	}
	// 门店停用则整店账号都不能登录
	if garage.Status != entity.GarageStatusActive {
		return nil, nil, ErrUserDisabled
	}

	user, err := s.userRepo.FindByLoginID(ctx, req.GarageCode, req.LoginID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if user.Status != entity.UserStatusActive {
		return nil, nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	// 登录时间写失败不影响登录
	s.userRepo.TouchLastLogin(ctx, user.ID)

	return user, pair, nil
}

// Refresh 用refresh token换新token对，旧jti作废
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return nil, ErrInvalidCredentials
	}

	userID := claims.Subject
	if s.rdb != nil {
		stored, err := s.rdb.Get(ctx, refreshKeyPrefix+claims.ID).Result()
		if err != nil || stored != userID {
			return nil, ErrInvalidCredentials
		}
		s.rdb.Del(ctx, refreshKeyPrefix+claims.ID)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrUserDisabled
	}

	return s.generateTokenPair(ctx, user)
}

// Logout 作废refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" || s.rdb == nil {
		return
	}
	token, err := jwt.ParseWithClaims(refreshToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return
	}
	if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok && claims.ID != "" {
		s.rdb.Del(ctx, refreshKeyPrefix+claims.ID)
	}
}

// Me 当前账号信息
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// HashPassword bcrypt哈希密码
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := middleware.JWTClaims{
		UserID:   user.ID,
		GarageID: user.GarageID,
		Name:     user.Name,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenExpire)),
			ID:        uuid.New().String(),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshJti := uuid.New().String()
	refreshClaims := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    s.cfg.JWT.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.RefreshTokenExpire)),
		ID:        refreshJti,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, refreshKeyPrefix+refreshJti, user.ID, s.cfg.JWT.RefreshTokenExpire)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}
