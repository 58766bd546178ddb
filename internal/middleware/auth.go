package middleware

import (
	"context"
	"net/http"

	"tradehub-be/internal/access"
	"tradehub-be/internal/auth"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const actorKey contextKey = "actor"

// SessionResolver turns a session token into the acting user.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (access.Actor, error)
}

func WithActor(ctx context.Context, a access.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the request's actor, or the anonymous actor.
func ActorFrom(ctx context.Context) access.Actor {
	a, _ := ctx.Value(actorKey).(access.Actor)
	return a
}

// Auth resolves the session token on every request. Requests without a
// token continue as anonymous; a token that does not resolve is rejected.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := sessions.CurrentSession(r.Context(), token)
			if err != nil {
				logger.FromCtx(r.Context()).Info("session rejected", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := WithActor(r.Context(), actor)
			ctx = logger.WithUserID(ctx, actor.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
