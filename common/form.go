package common

import (
	"errors"
	"io"
	"net/http"
	"service-desk/model"
	"strconv"
	"strings"
)

const multipartMemory = 8 << 20

// ParseForm reads a urlencoded or multipart body into r.Form.
func ParseForm(r *http.Request) *AppError {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid form body", err)
	}
	return nil
}

// ParseLimitedForm is ParseForm with the body capped at maxBytes, so an
// oversized upload is refused before it is spooled to disk.
func ParseLimitedForm(w http.ResponseWriter, r *http.Request, maxBytes int64) *AppError {
	if r.ContentLength > maxBytes {
		return NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", nil)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return ParseForm(r)
}

// decimalID parses a base-10 id made only of ASCII digits. Signs, prefixes
// and digit separators are rejected.
func decimalID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// OptionalInt reads an optional integer form field. An empty value yields
// nil; ok is false when the value is present but not a number.
func OptionalInt(r *http.Request, key string) (v *int, ok bool) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, true
	}
	n, ok := decimalID(raw)
	if !ok {
		return nil, false
	}
	return &n, true
}

// PathID parses a positive integer path parameter. Anything else is a 404,
// as an unmatched route would be.
func PathID(r *http.Request, name string) (int, *AppError) {
	raw := r.PathValue(name)
	id, ok := decimalID(raw)
	if !ok || id <= 0 || strings.HasPrefix(raw, "0") {
		return 0, NewAppError(http.StatusNotFound, "Not found", nil)
	}
	return id, nil
}

// FormPhoto reads an optional uploaded file. At most limit+1 bytes are kept
// in memory; the declared size is preserved so oversize uploads can be
// rejected by validation.
func FormPhoto(r *http.Request, field string, limit int64) (*model.PhotoUpload, *AppError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, NewAppError(http.StatusBadRequest, "Invalid file upload", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, NewAppError(http.StatusBadRequest, "Could not read uploaded file", err)
	}
	size := header.Size
	if size == 0 {
		size = int64(len(content))
	}
	return &model.PhotoUpload{Filename: header.Filename, Size: size, Content: content}, nil
}
