// Package envelope shapes JSON response bodies and applies the CORS policy
// shared by every API route.
package envelope

import (
	"encoding/json"
	"net/http"
)

// MsgInternal is the only message a client sees for unexpected failures.
const MsgInternal = "Internal Server Error"

// Body is the common response shape. Failures never carry Data.
type Body struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {success:true, data}.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Body{Success: true, Data: data})
}

// Fail writes {success:false, message}.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Body{Success: false, Message: message})
}

// Internal writes the generic 500 body.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, MsgInternal)
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
