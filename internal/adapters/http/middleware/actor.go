package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// HeaderUserID names the request header carrying the acting user.
const HeaderUserID = "X-User-ID"

// actorIDKey is the context key for storing the acting user's ID.
type actorIDKey struct{}

// WithActorID returns a new context with the acting user's ID stored in
// it.
func WithActorID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, actorIDKey{}, id)
}

// ActorIDFromContext extracts the acting user's ID from the context.
// Returns false if the request carried no valid identity.
func ActorIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorIDKey{}).(int64)
	return id, ok
}

// ActorID returns middleware that reads the X-User-ID header and stores
// the acting user's ID in the request context. The value is the
// adapter's identity contract; authorization against it happens in the
// application layer. Requests without the header pass through and fail
// later only on endpoints that need an actor.
func ActorID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), id)))
		})
	}
}
