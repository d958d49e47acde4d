// Package respond junta el writeJSON que antes estaba duplicado en cada módulo.
// Ya lo usan reports, claims y notifications, así que vive acá.
package respond

import (
	"encoding/json"
	"net/http"

	"pet-rescue/internal/platform/validation"
)

type errorBody struct {
	Error    string              `json:"error"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// ErrorFields: error con detalle por campo y status a elección (ej. 409 por duplicado).
func ErrorFields(w http.ResponseWriter, status int, msg string, fields map[string][]string) {
	JSON(w, status, errorBody{Error: msg, Fields: fields})
}

// Validation: 400 con el detalle por campo (si err trae validation.Errors).
func Validation(w http.ResponseWriter, err error) {
	body := errorBody{Error: "validation failed"}
	if f := validation.Fields(err); f != nil {
		body.Fields = f
	}
	JSON(w, http.StatusBadRequest, body)
}

// Forbidden: 403 + a dónde mandar al usuario (el front decide si redirige).
func Forbidden(w http.ResponseWriter, redirect string) {
	if redirect == "" {
		redirect = "/"
	}
	JSON(w, http.StatusForbidden, errorBody{Error: "permission denied", Redirect: redirect})
}
