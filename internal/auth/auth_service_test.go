package auth_test

import (
	"context"
	"errors"
	"testing"

	"docregistry/internal/auth"
	autherrors "docregistry/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepo struct {
	CreateFn        func(ctx context.Context, user *auth.User) error
	GetByEmailFn    func(ctx context.Context, email string) (*auth.User, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*auth.User, error)
	ExistsByEmailFn func(ctx context.Context, email string) (bool, error)
}

func (f *fakeAuthRepo) Create(ctx context.Context, user *auth.User) error {
	return f.CreateFn(ctx, user)
}
func (f *fakeAuthRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.GetByEmailFn(ctx, email)
}
func (f *fakeAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.ExistsByEmailFn(ctx, email)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success - password is hashed, never stored verbatim", func(t *testing.T) {
		var created *auth.User
		repo := &fakeAuthRepo{
			ExistsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				return false, nil
			},
			CreateFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:       "ana@example.com",
			Password:    "secret123",
			Role:        auth.RoleHR,
			Designation: "People Ops",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ana@example.com", resp.Email)
		assert.Equal(t, auth.RoleHR, resp.Role)
		assert.Equal(t, "People Ops", resp.Designation)

		assert.NotNil(t, created)
		assert.NotEqual(t, "secret123", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
	})

	t.Run("duplicate email -> conflict", func(t *testing.T) {
		repo := &fakeAuthRepo{
			ExistsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:       "dup@example.com",
			Password:    "secret123",
			Role:        auth.RoleEmployee,
			Designation: "Engineer",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("invalid role rejected before persistence", func(t *testing.T) {
		repo := &fakeAuthRepo{
			ExistsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				t.Fatal("repo should not be reached")
				return false, nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:       "x@example.com",
			Password:    "secret123",
			Role:        "superuser",
			Designation: "Engineer",
		})

		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	stored := &auth.User{
		ID:          uuid.New(),
		Email:       "ana@example.com",
		Password:    string(hashed),
		Role:        auth.RoleAdmin,
		Designation: "CTO",
	}

	t.Run("wrong password -> invalid credentials", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return stored, nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, _, err := svc.Login(ctx, "ana@example.com", "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email -> same invalid credentials", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{}, gorm.ErrRecordNotFound
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("database outage is not invalid credentials", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, _, err := svc.Login(ctx, "ana@example.com", "correct-horse")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("success - token decodes to user id and role", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				assert.Equal(t, "ana@example.com", email)
				return stored, nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		token, resp, err := svc.Login(ctx, "ana@example.com", "correct-horse")
		assert.NoError(t, err)
		assert.Equal(t, stored.Email, resp.Email)
		assert.Equal(t, stored.Role, resp.Role)
		assert.Equal(t, stored.Designation, resp.Designation)

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		assert.True(t, parsed.Valid)

		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, stored.ID.String(), claims["user_id"])
		assert.Equal(t, auth.RoleAdmin, claims["role"])
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepo{}, "test-secret")
		_, err := svc.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("unknown user -> not found", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByIDFn: func(ctx context.Context, got uuid.UUID) (*auth.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, err := svc.GetMe(ctx, uuid.NewString())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})

	t.Run("database outage is not user-not-found", func(t *testing.T) {
		repo := &fakeAuthRepo{
			GetByIDFn: func(ctx context.Context, got uuid.UUID) (*auth.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := auth.NewService(repo, "test-secret")

		_, err := svc.GetMe(ctx, uuid.NewString())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, autherrors.ErrUserNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeAuthRepo{
			GetByIDFn: func(ctx context.Context, got uuid.UUID) (*auth.User, error) {
				assert.Equal(t, id, got)
				return &auth.User{ID: id, Email: "ana@example.com", Role: auth.RoleEmployee, Designation: "Engineer"}, nil
			},
		}
		svc := auth.NewService(repo, "test-secret")

		resp, err := svc.GetMe(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "ana@example.com", resp.Email)
	})
}
