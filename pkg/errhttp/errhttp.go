// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to StatusFor for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemstore/pkg/httpx"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors. When
// isProduction is set, 5xx messages are replaced by the status text.
func WriteError(w http.ResponseWriter, err error, isProduction bool) {
	status := StatusFor(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

// StatusFor returns the HTTP status code for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrInvalidArgument):
		return http.StatusBadRequest // 400
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrItemAlreadyExists):
		return http.StatusConflict // 409
	default:
		// ErrCorruptData, ErrStorageUnavailable and anything unrecognized.
		return http.StatusInternalServerError // 500
	}
}
