// Package auth validates bearer tokens issued by the configured identity
// provider (Cognito in the stock deployment) and extracts their claims.
// Access-level derivation from claims lives in the access package.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrNoToken         = errors.New("no bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")
	ErrUnknownKeyID    = errors.New("unknown key id")
)

const jwksCacheTTL = time.Hour

// Verifier validates JWTs against the issuer's published JWKS.
//
// In dev mode (no issuer configured) tokens are parsed without signature
// verification so the service can run against hand-crafted tokens locally.
type Verifier struct {
	issuer   string
	clientID string
	devMode  bool

	httpClient *http.Client

	mu            sync.RWMutex
	keys          map[string]any // kid -> public key
	keysExpiresAt time.Time
}

// NewVerifier creates a token verifier for the given issuer. An empty
// issuer enables dev mode.
func NewVerifier(issuer, clientID string, devMode bool) *Verifier {
	return &Verifier{
		issuer:     issuer,
		clientID:   clientID,
		devMode:    devMode && issuer == "",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]any),
	}
}

// Verify parses and validates a bearer token, returning its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	if v.devMode {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return claims, nil
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
	}
	// Cognito puts the app client id in the aud claim of ID tokens.
	if v.clientID != "" {
		opts = append(opts, jwt.WithAudience(v.clientID))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKeyID
		}
		return v.keyForKID(ctx, kid)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// keyForKID returns the public key for a key id, refreshing the JWKS cache
// when the kid is unknown (key rotation).
func (v *Verifier) keyForKID(ctx context.Context, kid string) (any, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Now().Before(v.keysExpiresAt)
	v.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := v.refreshJWKS(ctx); err != nil {
		if ok {
			// Serve the stale key rather than failing the request.
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok = v.keys[kid]
	if !ok {
		return nil, ErrUnknownKeyID
	}
	return key, nil
}

func (v *Verifier) refreshJWKS(ctx context.Context) error {
	url := v.issuer + "/.well-known/jwks.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create JWKS request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}

	keys := make(map[string]any, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		kid, _ := jwk["kid"].(string)
		if kid == "" {
			continue
		}
		key, err := parseJWK(jwk)
		if err != nil {
			continue
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.keysExpiresAt = time.Now().Add(jwksCacheTTL)
	v.mu.Unlock()

	return nil
}
