package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claimsVersion fixes the claim payload shape. Bump only together with a
// verifier that accepts both versions during rollover.
const claimsVersion = 1

// Identity is the verified subject carried by a session token.
type Identity struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	Ver int `json:"ver"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens with a process-wide symmetric
// secret. The secret is immutable after construction; rotation means building
// a new Manager, which invalidates every outstanding token at once.
type Manager struct {
	issuer string
	ttl    time.Duration
	secret []byte
}

// NewManager builds a Manager from cfg. The secret must be present and at
// least 32 bytes once decoded.
func NewManager(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("%w: empty issuer", ErrConfig)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("%w: non-positive ttl", ErrConfig)
	}

	secret, err := decodeSecretHex(cfg.SecretHex)
	if err != nil {
		return nil, err
	}

	return &Manager{
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		secret: secret,
	}, nil
}

// Issue signs a token asserting subject until now+TTL.
func (m *Manager) Issue(subject string, now time.Time) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty subject", ErrConfig)
	}

	exp := now.Add(m.ttl)
	c := claims{
		Ver: claimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses text, checks signature and expiration, then the issuer tag.
//
// Signature, structure and expiration failures all map to ErrInvalidToken.
// A valid signature with a foreign issuer maps to ErrWrongCredentials; both
// must be presented to clients as the same unauthorized condition.
func (m *Manager) Verify(text string, now time.Time) (Identity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Identity{}, ErrInvalidToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(text, &c,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	if c.Issuer != m.issuer {
		return Identity{}, ErrWrongCredentials
	}
	if c.Ver != claimsVersion {
		return Identity{}, ErrInvalidToken
	}
	if strings.TrimSpace(c.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{Subject: c.Subject}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}
