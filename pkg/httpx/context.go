package httpx

import "context"

type ctxKey string

const (
	CtxKeySubject   ctxKey = "subject"
	CtxKeySessionID ctxKey = "session_id"
)

// SubjectFromContext returns the authenticated admin username, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeySubject).(string)
	return v, ok && v != ""
}

// SessionIDFromContext returns the id of the session that authenticated the
// request, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeySessionID).(string)
	return v, ok && v != ""
}

func contextWithSession(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, s.Subject)
	ctx = context.WithValue(ctx, CtxKeySessionID, s.ID)
	return ctx
}
