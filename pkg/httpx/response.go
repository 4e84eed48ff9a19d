package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every error response the API writes.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON encodes v and writes it with the given status. The body is encoded
// before any header is written, so a value that cannot be marshalled turns
// into a plain 500 instead of a truncated 2xx.
func JSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorBody{Error: http.StatusText(status)})
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// SafeError picks the message a client may see for err. Production hides
// 5xx details behind the status text.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
