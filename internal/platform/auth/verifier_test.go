package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CXBuilder/flow-config/internal/platform/access"
)

func newJWKSServer(t *testing.T, kid string, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		jwks := map[string]any{
			"keys": []map[string]any{
				{
					"kty": "RSA",
					"kid": kid,
					"use": "sig",
					"alg": "RS256",
					"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
					"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jwks)
	})
	return httptest.NewServer(mux)
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	server := newJWKSServer(t, "key-1", &key.PublicKey)
	defer server.Close()

	verifier := NewVerifier(server.URL, "client-1", false)

	tokenString := signToken(t, key, "key-1", jwt.MapClaims{
		"iss":              server.URL,
		"aud":              "client-1",
		"sub":              "user-42",
		"cognito:username": "alice",
		"cognito:groups":   []string{"FlowConfigEdit"},
		"exp":              time.Now().Add(time.Hour).Unix(),
	})

	claims, err := verifier.Verify(context.Background(), tokenString)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != "user-42" {
		t.Errorf("expected sub user-42, got %v", claims["sub"])
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	server := newJWKSServer(t, "key-1", &key.PublicKey)
	defer server.Close()

	verifier := NewVerifier(server.URL, "", false)

	tokenString := signToken(t, key, "key-1", jwt.MapClaims{
		"iss": "https://evil.example.com",
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := verifier.Verify(context.Background(), tokenString); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	server := newJWKSServer(t, "key-1", &key.PublicKey)
	defer server.Close()

	verifier := NewVerifier(server.URL, "", false)

	tokenString := signToken(t, key, "key-1", jwt.MapClaims{
		"iss": server.URL,
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := verifier.Verify(context.Background(), tokenString); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestVerifyRejectsUnknownKeyID(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	server := newJWKSServer(t, "key-1", &key.PublicKey)
	defer server.Close()

	verifier := NewVerifier(server.URL, "", false)

	tokenString := signToken(t, key, "rotated-away", jwt.MapClaims{
		"iss": server.URL,
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := verifier.Verify(context.Background(), tokenString); err == nil {
		t.Fatal("expected unknown kid to fail")
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	verifier := NewVerifier("", "", true)
	if _, err := verifier.Verify(context.Background(), ""); err == nil {
		t.Fatal("expected empty token to fail")
	}
}

func TestVerifyDevMode(t *testing.T) {
	verifier := NewVerifier("", "", true)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":              "dev-user",
		"cognito:username": "dev",
		"cognito:groups":   "FlowConfigAdmin",
	})
	signed, err := token.SignedString([]byte("local-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	claims, err := verifier.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("Verify failed in dev mode: %v", err)
	}
	if sub, _ := claims["sub"].(string); sub != "dev-user" {
		t.Errorf("expected sub dev-user, got %v", claims["sub"])
	}
}

func TestActorFromClaims(t *testing.T) {
	groups := access.DefaultGroups()

	actor := ActorFromClaims(jwt.MapClaims{
		"sub":              "user-42",
		"cognito:username": "alice",
		"cognito:groups":   []any{"FlowConfigEdit", "Unrelated"},
	}, groups)

	if actor.Subject != "user-42" || actor.Username != "alice" {
		t.Errorf("unexpected identity: %+v", actor)
	}
	if actor.Level != access.LevelEdit {
		t.Errorf("expected Edit level, got %v", actor.Level)
	}
}

func TestActorFromClaimsNoGroups(t *testing.T) {
	actor := ActorFromClaims(jwt.MapClaims{"sub": "user-42"}, access.DefaultGroups())
	if actor.Level != access.LevelNone {
		t.Errorf("expected None level, got %v", actor.Level)
	}
	if actor.Name() != "user-42" {
		t.Errorf("expected Name to fall back to subject, got %q", actor.Name())
	}
}
