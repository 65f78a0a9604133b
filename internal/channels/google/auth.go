package google

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ContentScope    = "https://www.googleapis.com/auth/content"
	DefaultTokenURI = "https://oauth2.googleapis.com/token"

	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// TokenSource supplies bearer tokens for API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a pre-issued access token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", errors.New("google: empty access token")
	}
	return string(t), nil
}

// ServiceAccount is the subset of a service-account key file we need.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

func LoadServiceAccountFile(path string) (ServiceAccount, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ServiceAccount{}, fmt.Errorf("read credentials: %w", err)
	}

	var sa ServiceAccount
	if err := json.Unmarshal(b, &sa); err != nil {
		return ServiceAccount{}, fmt.Errorf("parse credentials: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return ServiceAccount{}, errors.New("credentials file lacks client_email or private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = DefaultTokenURI
	}
	return sa, nil
}

// JWTTokenSource exchanges a self-signed RS256 assertion for an access token
// and caches it until shortly before expiry.
type JWTTokenSource struct {
	account ServiceAccount
	key     *rsa.PrivateKey
	http    *http.Client
	now     func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewJWTTokenSource(sa ServiceAccount, httpClient *http.Client) (*JWTTokenSource, error) {
	// Allow keys stored as a single line with "\n" escapes.
	pemKey := strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse private key pem failed: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if sa.TokenURI == "" {
		sa.TokenURI = DefaultTokenURI
	}

	return &JWTTokenSource{
		account: sa,
		key:     key,
		http:    httpClient,
		now:     time.Now,
	}, nil
}

// TokenError is a non-200 answer from the OAuth token endpoint. It never
// matches channels.ErrNotFound: a 404 here says nothing about the product.
type TokenError struct {
	Status int
	Body   string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token endpoint status %d: %s", e.Status, strings.TrimSpace(e.Body))
}

func (e *TokenError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func (s *JWTTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if s.token != "" && now.Before(s.expiry.Add(-time.Minute)) {
		return s.token, nil
	}

	assertion, err := s.sign(now)
	if err != nil {
		return "", err
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.account.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return "", &TokenError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("token response has no access_token")
	}

	s.token = tr.AccessToken
	s.expiry = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	return s.token, nil
}

func (s *JWTTokenSource) sign(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   s.account.ClientEmail,
		"scope": ContentScope,
		"aud":   s.account.TokenURI,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(time.Hour)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(s.key)
}
