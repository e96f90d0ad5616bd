package middleware

import (
	"context"
	"net/http"
	"strings"

	"pawsera/internal/domain/roles"
)

const actorKey ctxKey = "actor"

// ActorLookup resuelve el rol real desde el registro de usuario (nunca desde el token).
type ActorLookup func(ctx context.Context, userID string) (roles.Actor, error)

// ResolveActor corre después de AuthContext. Si no hay claims o el usuario no
// existe, el request sigue sin actor y el handler responde 401.
func ResolveActor(lookup ActorLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" || lookup == nil {
				next.ServeHTTP(w, r)
				return
			}
			actor, err := lookup(r.Context(), claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (roles.Actor, bool) {
	a, ok := ctx.Value(actorKey).(roles.Actor)
	if !ok || strings.TrimSpace(a.UserID) == "" {
		return roles.Actor{}, false
	}
	return a, true
}

// WithActor es para tests de handlers que no pasan por el router.
func WithActor(ctx context.Context, a roles.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}
