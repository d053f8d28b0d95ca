package doctypeerrors

import (
	"net/http"

	"github.com/monaguib-hub/DocTrack/internal/shared/apperror"
)

var (
	ErrDocumentTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document type not found",
		http.StatusNotFound,
	)
	ErrParentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Parent document type not found",
		http.StatusNotFound,
	)
	ErrCategoryRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Category is required for a root document type",
		http.StatusBadRequest,
	)
	ErrCyclicParent = apperror.New(
		apperror.CodeInvalidState,
		"A document type cannot be nested under its own descendant",
		http.StatusConflict,
	)
	ErrCatalogNotEmpty = apperror.New(
		apperror.CodeConflict,
		"Catalog already contains document types; pass force=true to import anyway",
		http.StatusConflict,
	)
	ErrInvalidDocumentTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid document type ID",
		http.StatusBadRequest,
	)
)
