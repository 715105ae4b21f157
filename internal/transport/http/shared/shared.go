// Package shared holds response helpers common to all HTTP handlers.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "blockrent/pkg/domain-errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto its HTTP status and writes the coded
// error body. Only the domain message is exposed; wrapped causes and
// uncoded errors stay server-side.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal server error"

	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		if code != dErrors.CodeInternal {
			message = de.Message
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), errorBody{
		Code:    string(code),
		Message: message,
	})
}
