package ports

import "context"

// Credentials is what an outbound request needs from the session that
// issued it: the bearer token to attach, and a way to tear the session down
// when the upstream rejects that token.
type Credentials interface {
	BearerToken() string
	// Revoke clears the session the credential was taken from. It must be a
	// no-op when the session has moved on to a different token.
	Revoke(ctx context.Context)
}

type credentialsKey struct{}

// WithCredentials attaches creds to every gateway call made with ctx.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx, if any.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok && creds != nil
}
