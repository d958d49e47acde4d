package middleware

import (
	"context"
	"net/http"

	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/ports/capabilities"
)

// Actor resuelve las capabilities del usuario autenticado y deja un capabilities.Actor
// en el contexto. Va después de AuthContext. Si el resolver falla, el usuario sigue
// autenticado pero sin capabilities.
func Actor(resolver capabilities.Resolver, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims.UserID == "" {
				next.ServeHTTP(w, r)
				return
			}

			var caps []capabilities.Capability
			if resolver != nil {
				got, err := resolver.Resolve(r.Context(), claims.UserID)
				if err != nil {
					log.Warn("capabilities resolve failed", map[string]any{
						"user_id": claims.UserID,
						"err":     err,
					})
				} else {
					caps = got
				}
			}

			a := capabilities.NewActor(claims.UserID, claims.Email, caps...)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a)))
		})
	}
}

func WithActor(ctx context.Context, a capabilities.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor nunca falla: sin actor en el contexto devuelve Anonymous.
func GetActor(ctx context.Context) capabilities.Actor {
	if a, ok := ctx.Value(actorKey).(capabilities.Actor); ok {
		return a
	}
	if c, ok := GetClaims(ctx); ok {
		return capabilities.NewActor(c.UserID, c.Email)
	}
	return capabilities.Anonymous()
}
