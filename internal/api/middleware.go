package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderMessageID carries the correlation id across service boundaries.
const HeaderMessageID = "X-Message-Id"

type ctxKey int

const messageIDKey ctxKey = iota

// MessageID reads the correlation id from a request, minting one when the
// caller did not send the header. The id is echoed on the response and
// threaded through every downstream call; it has no semantic effect.
func MessageID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderMessageID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderMessageID, id)
		ctx := context.WithValue(r.Context(), messageIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MessageIDFrom returns the correlation id stored by the middleware.
func MessageIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(messageIDKey).(string)
	return id
}
