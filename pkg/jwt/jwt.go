package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const (
	issuer     = "papelbot"
	defaultTTL = 24 * time.Hour
	devSecret  = "papelbot-dev-secret-change-in-production"
)

// Claims identifies the shop operator allowed to change the catalog.
type Claims struct {
	Operator   string   `json:"operator"`
	Privileges []string `json:"privileges"`
	jwt.RegisteredClaims
}

// Has reports whether the token carries the privilege.
func (c *Claims) Has(privilege string) bool {
	for _, p := range c.Privileges {
		if p == privilege {
			return true
		}
	}
	return false
}

type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager signs with secret, or with a development key when it is empty.
func NewManager(secret string) *Manager {
	if secret == "" {
		secret = devSecret
	}
	return &Manager{secret: []byte(secret), now: time.Now}
}

// GenerateToken creates a token for an operator. ttl <= 0 means 24 hours.
func (m *Manager) GenerateToken(operator string, privileges []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := m.now()
	claims := &Claims{
		Operator:   operator,
		Privileges: privileges,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
