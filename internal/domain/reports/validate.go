package reports

import (
	"strings"
	"time"

	"pet-rescue/internal/platform/validation"
)

type SubmitInput struct {
	Type        string
	Name        string
	Species     string
	Breed       string
	Color       string
	Size        string
	Gender      string
	Description string
	Location    string
	Date        time.Time

	ContactName  string
	ContactEmail string
	ContactPhone string
}

// dateSlack: la fecha llega sin zona; "hoy" en UTC+14 todavía es ayer en UTC.
const dateSlack = 14 * time.Hour

// ValidateSubmission devuelve el input normalizado o validation.Errors con el detalle por campo.
// now se usa para rechazar fechas futuras.
func ValidateSubmission(in SubmitInput, now time.Time) (SubmitInput, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.ToLower(strings.TrimSpace(in.Species))
	in.Breed = strings.TrimSpace(in.Breed)
	in.Color = strings.TrimSpace(in.Color)
	in.Size = strings.ToLower(strings.TrimSpace(in.Size))
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)

	if in.Type == "" {
		in.Type = string(TypeFound)
	}
	if in.Gender == "" {
		in.Gender = string(GenderUnknown)
	}

	v := validation.Errors{}
	validation.OneOf(v, "type", in.Type, string(TypeFound), string(TypeLost))
	validation.Required(v, "species", in.Species)
	validation.OneOf(v, "species", in.Species,
		string(SpeciesDog), string(SpeciesCat), string(SpeciesBird),
		string(SpeciesRabbit), string(SpeciesHamster), string(SpeciesOther))
	validation.OneOf(v, "size", in.Size, string(SizeSmall), string(SizeMedium), string(SizeLarge))
	validation.OneOf(v, "gender", in.Gender, string(GenderMale), string(GenderFemale), string(GenderUnknown))
	validation.Required(v, "location", in.Location)

	validation.MaxLen(v, "name", in.Name, 100)
	validation.MaxLen(v, "breed", in.Breed, 100)
	validation.MaxLen(v, "color", in.Color, 100)
	validation.MaxLen(v, "location", in.Location, 255)
	validation.MaxLen(v, "contact_name", in.ContactName, 100)
	validation.MaxLen(v, "contact_email", in.ContactEmail, 254)
	validation.Email(v, "contact_email", in.ContactEmail)
	validation.Phone(v, "contact_phone", in.ContactPhone)

	if in.Date.IsZero() {
		v.Add("date", "is required")
	} else if dateOnly(in.Date).After(dateOnly(now.UTC().Add(dateSlack))) {
		v.Add("date", "cannot be in the future")
	}

	if err := v.Err(); err != nil {
		return SubmitInput{}, err
	}

	in.Date = dateOnly(in.Date)
	return in, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
