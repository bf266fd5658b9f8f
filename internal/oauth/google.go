package oauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"
)

// Google wraps the code-for-identity exchange. It is the only component that
// talks to the identity provider; everything it hands downstream is just a
// verified (sub, email) pair.
type Google struct {
	cfg      *oauth2.Config
	stateKey []byte
}

func NewGoogle(clientID, clientSecret, redirectURI, stateSecret string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email"},
			Endpoint:     ggoogle.Endpoint,
		},
		stateKey: []byte(stateSecret),
	}
}

// MakeState signs raw with HMAC-SHA256 so the callback can reject states we
// never issued (CSRF).
func (g *Google) MakeState(raw string) string {
	mac := hmac.New(sha256.New, g.stateKey)
	mac.Write([]byte(raw))
	return raw + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (g *Google) VerifyState(got string) bool {
	raw, sig, ok := strings.Cut(got, ".")
	if !ok {
		return false
	}
	sigb, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, g.stateKey)
	mac.Write([]byte(raw))
	return hmac.Equal(mac.Sum(nil), sigb)
}

func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type Identity struct {
	Sub   string
	Email string
}

// Exchange trades the authorization code for tokens and pulls sub/email out
// of the id_token. The id_token comes straight from Google over TLS during
// the code exchange, so checking iss/aud on the parsed claims is enough; we
// do not re-verify the signature against Google's JWKS.
func (g *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("no id_token in token response")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(rawIDToken, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	iss, _ := claims["iss"].(string)
	aud, _ := claims["aud"].(string)
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)

	if iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, errors.New("unexpected id_token issuer")
	}
	if aud != g.cfg.ClientID {
		return nil, errors.New("id_token audience mismatch")
	}
	if sub == "" || email == "" {
		return nil, errors.New("id_token missing sub/email")
	}

	return &Identity{Sub: sub, Email: email}, nil
}
