package claims

import (
	"strings"

	"pet-rescue/internal/platform/validation"
)

type FileInput struct {
	Type    string
	Name    string
	Email   string
	Phone   string
	Message string
	Proof   string
}

// ValidateClaim normaliza y valida el formulario del claim.
func ValidateClaim(in FileInput) (FileInput, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	in.Proof = strings.TrimSpace(in.Proof)

	if in.Type == "" {
		in.Type = string(TypeClaim)
	}

	v := validation.Errors{}
	validation.OneOf(v, "type", in.Type, string(TypeClaim), string(TypeAdopt), string(TypeSighting))
	validation.Required(v, "name", in.Name)
	validation.MaxLen(v, "name", in.Name, 100)
	validation.Required(v, "email", in.Email)
	validation.Email(v, "email", in.Email)
	validation.Phone(v, "phone", in.Phone)
	validation.Required(v, "message", in.Message)
	validation.MaxLen(v, "message", in.Message, 4000)
	validation.MaxLen(v, "proof", in.Proof, 4000)

	if err := v.Err(); err != nil {
		return FileInput{}, err
	}
	return in, nil
}
