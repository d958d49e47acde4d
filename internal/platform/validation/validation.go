// Package validation arma el resultado de validar un formulario:
// errores por campo, sin nada de UI.
package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalid es el kind que envuelve todo Errors (errors.Is(err, ErrInvalid)).
var ErrInvalid = errors.New("validation failed")

// Errors: campo -> mensajes.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err devuelve nil si no hay errores (para `return v.Err()`).
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrInvalid }

// Fields extrae el detalle por campo de un error (o nil si no es de validación).
func Fields(err error) Errors {
	var ve Errors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Mismo formato que aceptaba el portal original: +999999999, hasta 15 dígitos.
var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

func Required(e Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
	}
}

func MaxLen(e Errors, field, value string, n int) {
	if len([]rune(value)) > n {
		e.Add(field, "is too long")
	}
}

func Email(e Errors, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		e.Add(field, "must be a valid email address")
	}
}

func Phone(e Errors, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(value)
	if !phoneRe.MatchString(clean) {
		e.Add(field, "must look like +999999999 (9 to 15 digits)")
	}
}

// OneOf valida enums; vacío se ignora (usar Required aparte).
func OneOf(e Errors, field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, "must be one of: "+strings.Join(allowed, ", "))
}
