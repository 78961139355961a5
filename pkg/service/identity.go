package service

import "context"

// Identity resolves the user behind a request.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// StaticIdentity always reports the same user. An empty value means nobody is
// signed in.
type StaticIdentity string

func (s StaticIdentity) CurrentUserID(context.Context) (string, bool) {
	return string(s), s != ""
}

type userKey struct{}

// WithUser stores userID on ctx for ContextIdentity.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// ContextIdentity reads the user stored by WithUser.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}
