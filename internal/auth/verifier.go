package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned for any bearer token that cannot be
// mapped to a user. Callers should not expose the underlying cause.
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier resolves a bearer token issued by the identity provider to the
// provider's stable user id.
type Verifier interface {
	Verify(ctx context.Context, bearer string) (userID string, err error)
}
