package document

import (
	"errors"
	"strings"

	documenterrors "docregistry/internal/document/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return documenterrors.ErrDocumentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "22P02" {
			return documenterrors.ErrInvalidDocumentID
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "invalid input syntax for type uuid") {
		return documenterrors.ErrInvalidDocumentID
	}

	return err
}
