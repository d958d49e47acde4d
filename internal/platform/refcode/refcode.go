// Package refcode genera los códigos cortos públicos de los reportes
// (ej: "7KD3-QX2M" se muestra, se guarda "7KD3QX2M").
package refcode

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Crockford: sin I, L, O, U para que se pueda dictar por teléfono.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Length es la cantidad de caracteres (40 bits de entropía).
const Length = 8

var enc = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// New devuelve un código aleatorio de Length caracteres.
func New() (string, error) {
	buf := make([]byte, Length*5/8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("refcode: read random: %w", err)
	}
	return enc.EncodeToString(buf), nil
}

// Normalize acepta lo que escribe un humano: minúsculas, guiones, I/L/O confundidas.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", " ", "", "I", "1", "L", "1", "O", "0").Replace(s)
	return s
}

// Valid indica si s (ya normalizado) tiene forma de código.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

// Display agrega el guion del medio para mostrarlo.
func Display(s string) string {
	if len(s) != Length {
		return s
	}
	return s[:4] + "-" + s[4:]
}
