package session

import (
	"context"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims identify the tailor a token was issued to
type Claims struct {
	TailorID uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues, verifies and revokes session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
	store  RevocationStore
	now    func() time.Time
}

// NewManager creates a token manager signing with secret
func NewManager(secret string, ttl time.Duration, store RevocationStore) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

// Issue signs a new token for the tailor
func (m *Manager) Issue(tailor *models.Tailor) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		TailorID: tailor.ID,
		Username: tailor.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign token")
	}
	return token, claims, nil
}

// Parse verifies a token and returns its claims
func (m *Manager) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	if claims.ID != "" {
		revoked, err := m.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check token revocation")
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}

// Revoke invalidates the token until it would have expired
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	until := m.now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return m.store.Revoke(ctx, claims.ID, until)
}
