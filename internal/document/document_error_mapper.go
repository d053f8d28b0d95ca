package document

import (
	"errors"
	"strings"

	documenterrors "github.com/monaguib-hub/DocTrack/internal/document/errors"

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
		if pgErr.Code == "23503" && pgErr.ConstraintName == "fk_documents_employee" {
			return documenterrors.ErrOwnerNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key") && strings.Contains(errMsg, "fk_documents_employee") {
		return documenterrors.ErrOwnerNotFound
	}

	return err
}
