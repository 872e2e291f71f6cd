package api_context

import (
	"context"

	"github.com/fhuszti/upload-relay-go/internal/session"
)

type ctxKey string

const SessionKey ctxKey = "session"

func WithSession(ctx context.Context, sess session.Authenticated) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

func SessionFromContext(ctx context.Context) (session.Authenticated, bool) {
	sess, ok := ctx.Value(SessionKey).(session.Authenticated)
	if !ok || !sess.Valid() {
		return session.Authenticated{}, false
	}
	return sess, true
}
