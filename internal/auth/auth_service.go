package auth

import (
	"context"
	"errors"
	"time"

	autherrors "docregistry/internal/auth/errors"
	"docregistry/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, email, password string) (token string, resp UserResponse, err error)
	GetMe(ctx context.Context, userID string) (*UserResponse, error)
}

type service struct {
	repo      Repository
	jwtSecret string
	logger    *zap.Logger
}

func NewService(repo Repository, jwtSecret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, jwtSecret: jwtSecret, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !ValidRole(req.Role) {
		return UserResponse{}, autherrors.ErrInvalidRole
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("register email lookup failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}
	if exists {
		return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	user := &User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hashed),
		Role:        req.Role,
		Designation: req.Designation,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("register persist failed", zap.String("request_id", rid), zap.Error(err))
		// The unique index still backstops the pre-check under concurrency.
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("register success",
		zap.String("request_id", rid),
		zap.String("user_id", user.ID.String()),
	)

	return mapToResponse(user), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same failure for unknown email and wrong password.
			return "", UserResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login user lookup failed", zap.Error(err))
		return "", UserResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID.String(), user.Email, user.Role, tokenTTL)
	if err != nil {
		return "", UserResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", user.ID.String()))

	return token, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		s.logger.Error("get me lookup failed", zap.Error(err))
		return nil, err
	}

	resp := mapToResponse(u)
	return &resp, nil
}

// reusable token generator
func (s *service) generateToken(userID, email, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func mapToResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Role:        u.Role,
		Designation: u.Designation,
	}
}
