package slotstub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/attaboy/slotcheck/internal/domain"
	"github.com/shopspring/decimal"
)

// maxRequestBytes caps request bodies.
const maxRequestBytes = 1 << 20

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response, detecting domain.AppError for status codes.
func respondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		respondJSON(w, appErr.Status, map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    domain.CodeInternal,
		"message": "internal server error",
	})
}

// decodeJSON reads a JSON request body of at most 1 MiB into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("invalid JSON body")
	}
	return nil
}

// money renders an amount as a two-decimal JSON number.
func money(v decimal.Decimal) json.Number {
	return json.Number(v.StringFixed(2))
}
