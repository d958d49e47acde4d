package capabilities

import (
	"context"
	"strings"
)

type Capability string

const (
	ReportsVerify Capability = "reports:verify"
	ReportsManage Capability = "reports:manage"
	ClaimsReview  Capability = "claims:review"

	// Wildcard: lo devuelve el resolver en modo ALLOW_ALL o para admins.
	All Capability = "*"
)

// StaffCapabilities es lo que recibe un usuario marcado como staff en config.
var StaffCapabilities = []Capability{ReportsVerify, ReportsManage, ClaimsReview}

// Resolver decide qué capabilities tiene un usuario.
// Reemplaza los flags is_staff/is_admin: los servicios nunca miran roles, solo el Actor.
type Resolver interface {
	Resolve(ctx context.Context, userID string) ([]Capability, error)
}

// Actor es la identidad + capabilities que se pasa explícitamente a cada operación.
type Actor struct {
	UserID string
	Email  string
	caps   map[Capability]struct{}
}

func NewActor(userID, email string, caps ...Capability) Actor {
	a := Actor{
		UserID: strings.TrimSpace(userID),
		Email:  strings.ToLower(strings.TrimSpace(email)),
		caps:   make(map[Capability]struct{}, len(caps)),
	}
	for _, c := range caps {
		c = Capability(strings.TrimSpace(string(c)))
		if c == "" {
			continue
		}
		a.caps[c] = struct{}{}
	}
	return a
}

// Anonymous es un visitante sin login.
func Anonymous() Actor { return Actor{} }

func (a Actor) IsAnonymous() bool {
	return a.UserID == "" && a.Email == ""
}

func (a Actor) Can(c Capability) bool {
	if _, ok := a.caps[All]; ok {
		return true
	}
	_, ok := a.caps[c]
	return ok
}

// Capabilities devuelve la lista (sin orden garantizado).
func (a Actor) Capabilities() []Capability {
	out := make([]Capability, 0, len(a.caps))
	for c := range a.caps {
		out = append(out, c)
	}
	return out
}
