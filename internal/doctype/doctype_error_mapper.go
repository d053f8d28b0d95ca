package doctype

import (
	"errors"
	"strings"

	doctypeerrors "github.com/monaguib-hub/DocTrack/internal/doctype/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return doctypeerrors.ErrDocumentTypeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" && pgErr.ConstraintName == "fk_document_types_parent" {
			return doctypeerrors.ErrParentNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key") && strings.Contains(errMsg, "fk_document_types_parent") {
		return doctypeerrors.ErrParentNotFound
	}

	return err
}
