package auth

import (
	"context"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
)

// ClerkVerifier checks Clerk session tokens. Signing keys are fetched by key
// id through a JWKS client bound to the verifier's own secret key.
type ClerkVerifier struct {
	jwks *jwks.Client
}

func NewClerkVerifier(secretKey string) *ClerkVerifier {
	return &ClerkVerifier{
		jwks: jwks.NewClient(&clerk.ClientConfig{
			BackendConfig: clerk.BackendConfig{Key: clerk.String(secretKey)},
		}),
	}
}

func (v *ClerkVerifier) Verify(ctx context.Context, bearer string) (string, error) {
	if bearer == "" {
		return "", ErrUnauthenticated
	}
	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{
		Token:      bearer,
		JWKSClient: v.jwks,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}
