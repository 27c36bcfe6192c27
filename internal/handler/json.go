package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20 // 1MB

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads and validates a JSON body into dst. An empty body leaves
// dst at its zero value when allowEmpty is set. On failure the response has
// already been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		case errors.Is(err, io.EOF) && allowEmpty:
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
			return false
		}
	}

	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(validationMessage(err)))
		return false
	}
	return true
}

// validationMessage names the first failing field without echoing its value.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "invalid field " + fe.Field() + ": failed " + fe.Tag() + " check"
	}
	return "invalid request body"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
