package reports

import (
	"strings"
	"time"
)

// Type: la mascota fue encontrada o se perdió.
// @Enum found, lost
type Type string

const (
	TypeFound Type = "found"
	TypeLost  Type = "lost"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, rabbit, hamster, other
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesHamster Species = "hamster"
	SpeciesOther   Species = "other"
)

var speciesDisplay = map[Species]string{
	SpeciesDog:     "Dog",
	SpeciesCat:     "Cat",
	SpeciesBird:    "Bird",
	SpeciesRabbit:  "Rabbit",
	SpeciesHamster: "Hamster",
	SpeciesOther:   "Other",
}

// Display devuelve el nombre legible ("Dog", "Cat", ...).
func (s Species) Display() string {
	if d, ok := speciesDisplay[s]; ok {
		return d
	}
	return "Other"
}

// Size es opcional.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"

	// Resultado de un claim aprobado (o cambio manual de staff).
	StatusMatched  Status = "matched"
	StatusClaimed  Status = "claimed"
	StatusAdopted  Status = "adopted"
	StatusReunited Status = "reunited"

	// Terminales.
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
	StatusArchived Status = "archived"
)

var statusStage = map[Status]int{
	StatusPending:   0,
	StatusPublished: 1,
	StatusMatched:   2,
	StatusClaimed:   2,
	StatusAdopted:   2,
	StatusReunited:  2,
	StatusResolved:  3,
	StatusClosed:    3,
	StatusArchived:  3,
}

// Stage: 0 pending, 1 published, 2 resultado, 3 terminal. -1 si no es un estado conocido.
func (s Status) Stage() int {
	if st, ok := statusStage[s]; ok {
		return st
	}
	return -1
}

func (s Status) Valid() bool { return s.Stage() >= 0 }

func (s Status) IsTerminal() bool { return s.Stage() == 3 }

// CanTransition: el estado solo avanza (nunca vuelve a pending ni se queda en el mismo escalón).
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid() && to.Stage() > from.Stage()
}

// AcceptsClaims: un reporte ya resuelto (claimed/adopted/...) no recibe más claims.
func (r Report) AcceptsClaims() bool {
	return r.Status.Stage() <= 1
}

// Report es un aviso de mascota encontrada o perdida.
type Report struct {
	ID            string
	ReferenceCode string

	Type        Type
	Name        string
	Species     Species
	Breed       string
	Color       string
	Size        Size
	Gender      Gender
	Description string
	Location    string
	Date        time.Time // día en que se encontró/perdió
	PhotoPath   string

	ContactName  string
	ContactEmail string
	ContactPhone string

	// Vacío si lo cargó un visitante anónimo.
	ReporterUserID string

	Status     Status
	IsVerified bool
	VerifiedBy string
	VerifiedAt *time.Time
	AdminNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counts son los totales del tablero (home y admin).
type Counts struct {
	Total      int
	Unverified int
	ByStatus   map[Status]int
	ByType     map[Type]int
}

// String: "Dog - brown @ Central Park".
func (r Report) String() string {
	color := strings.TrimSpace(r.Color)
	if color == "" {
		color = "Unknown"
	}
	return r.Species.Display() + " - " + color + " @ " + r.Location
}

// IsOwnedBy: el usuario que lo cargó o quien tenga el email de contacto.
func (r Report) IsOwnedBy(userID, email string) bool {
	if userID != "" && r.ReporterUserID == userID {
		return true
	}
	return email != "" && r.ContactEmail != "" && strings.EqualFold(r.ContactEmail, email)
}
