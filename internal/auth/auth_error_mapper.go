package auth

import (
	"errors"
	"strings"

	autherrors "docregistry/internal/auth/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return autherrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return autherrors.ErrEmailAlreadyRegistered
		case "23514":
			return autherrors.ErrInvalidRole
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		return autherrors.ErrEmailAlreadyRegistered
	}
	if strings.Contains(errMsg, "check constraint") && strings.Contains(errMsg, "role") {
		return autherrors.ErrInvalidRole
	}

	return err
}
