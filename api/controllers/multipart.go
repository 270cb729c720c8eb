package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
)

// multipartEnvelope leaves room for boundaries and part headers around the file.
const multipartEnvelope = 1 << 20

// formFile reads the named multipart part, refusing bodies over maxBytes.
func formFile(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartEnvelope)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, pkgerrors.Validation(field, fmt.Sprintf("must be at most %d MB", maxBytes>>20))
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected multipart/form-data body")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, pkgerrors.Validation(field, "is required")
	}
	if header.Size > maxBytes {
		_ = file.Close()
		return nil, nil, pkgerrors.Validation(field, fmt.Sprintf("must be at most %d MB", maxBytes>>20))
	}
	return file, header, nil
}
