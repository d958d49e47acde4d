package reports

import (
	"sort"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// SearchFilter combina todo con AND. Campos vacíos no filtran.
type SearchFilter struct {
	Query string // nombre, raza, color, ubicación o descripción

	Type    Type
	Species Species
	Status  Status
	Size    Size

	// Substring, sin distinguir mayúsculas.
	Color    string
	Location string

	VerifiedOnly bool
	Limit        int
}

// Normalize recorta espacios y acota el límite.
func (f SearchFilter) Normalize() SearchFilter {
	f.Query = strings.TrimSpace(f.Query)
	f.Type = Type(strings.ToLower(strings.TrimSpace(string(f.Type))))
	f.Species = Species(strings.ToLower(strings.TrimSpace(string(f.Species))))
	f.Status = Status(strings.ToLower(strings.TrimSpace(string(f.Status))))
	f.Size = Size(strings.ToLower(strings.TrimSpace(string(f.Size))))
	f.Color = strings.TrimSpace(f.Color)
	f.Location = strings.TrimSpace(f.Location)

	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Matches es el predicado de búsqueda. El repo memory lo usa tal cual;
// el SQL arma el WHERE equivalente.
func (f SearchFilter) Matches(r Report) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Species != "" && r.Species != f.Species {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Size != "" && r.Size != f.Size {
		return false
	}
	if f.VerifiedOnly && !r.IsVerified {
		return false
	}
	if f.Color != "" && !containsFold(r.Color, f.Color) {
		return false
	}
	if f.Location != "" && !containsFold(r.Location, f.Location) {
		return false
	}
	if f.Query != "" {
		hit := containsFold(r.Name, f.Query) ||
			containsFold(r.Breed, f.Query) ||
			containsFold(r.Color, f.Query) ||
			containsFold(r.Location, f.Query) ||
			containsFold(r.Description, f.Query)
		if !hit {
			return false
		}
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// SortRecent ordena por CreatedAt desc (desempate por ID para que sea estable).
func SortRecent(items []Report) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
