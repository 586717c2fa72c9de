package security

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseVerifier validates Firebase ID tokens for clients that sign in
// through the hosted identity provider instead of the local password flow.
// The verified email is used to resolve the local user record; roles always
// come from our own users table, never from provider claims.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// VerifyIDToken checks the token signature and expiry and returns the
// provider UID and the verified email address.
func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (uid, email string, err error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if e, ok := tok.Claims["email"].(string); ok {
		email = e
	}
	return tok.UID, email, nil
}
