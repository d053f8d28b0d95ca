package documenterrors

import (
	"net/http"

	"github.com/monaguib-hub/DocTrack/internal/shared/apperror"
)

var (
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document not found",
		http.StatusNotFound,
	)
	ErrOwnerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found for this document",
		http.StatusNotFound,
	)
	ErrInvalidExpiryDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid expiry_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDocumentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid document ID",
		http.StatusBadRequest,
	)
	ErrAttachmentUploadFailed = apperror.New(
		apperror.CodeServiceUnavailable,
		"Failed to store the attached file",
		http.StatusServiceUnavailable,
	)
)
