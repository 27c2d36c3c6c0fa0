package documenterrors

import (
	"net/http"

	"docregistry/internal/shared/apperror"
)

var (
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document not found",
		http.StatusNotFound,
	)

	ErrMissingSource = apperror.New(
		apperror.CodeInvalidInput,
		"Either url or filename must be provided",
		http.StatusBadRequest,
	)

	ErrUnknownUploader = apperror.New(
		apperror.CodeInvalidInput,
		"Uploader does not match a registered user",
		http.StatusBadRequest,
	)

	ErrInvalidDocumentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid document ID",
		http.StatusBadRequest,
	)

	ErrMissingFile = apperror.New(
		apperror.CodeInvalidInput,
		"A file is required for upload",
		http.StatusBadRequest,
	)

	ErrSourceUnreachable = apperror.New(
		apperror.CodeInvalidInput,
		"The source URL could not be fetched",
		http.StatusBadRequest,
	)

	ErrSummarizerUnavailable = apperror.New(
		apperror.CodeUpstreamFailure,
		"Summarization service failed to process the document",
		http.StatusBadGateway,
	)
)
