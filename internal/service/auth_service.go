package service

import (
	"context"
	"strings"

	"github.com/creativehub205/ladies-tailor-shop/internal/metrics"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned on successful login
type LoginResult struct {
	Token  string         `json:"token"`
	Tailor *models.Tailor `json:"tailor"`
}

// Login checks the credentials and issues a session token
func (s *service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	tailor, err := s.repo.FindTailorByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordEvent(metrics.EventLoginFailed)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up tailor")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tailor.PasswordHash), []byte(in.Password)); err != nil {
		metrics.RecordEvent(metrics.EventLoginFailed)
		s.log.WithField("username", in.Username).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.sessions.Issue(tailor)
	if err != nil {
		return nil, err
	}

	metrics.RecordEvent(metrics.EventLoginSucceeded)
	s.log.WithFields(logrus.Fields{
		"tailor_id": tailor.ID,
		"username":  tailor.Username,
	}).Info("Tailor logged in")

	return &LoginResult{Token: token, Tailor: tailor}, nil
}

// Logout revokes the session the claims belong to
func (s *service) Logout(ctx context.Context, claims *session.Claims) error {
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}
	s.log.WithField("tailor_id", claims.TailorID).Info("Tailor logged out")
	return nil
}

// Authenticate verifies a bearer token
func (s *service) Authenticate(ctx context.Context, token string) (*session.Claims, error) {
	return s.sessions.Parse(ctx, token)
}

// EnsureDefaultTailor seeds the default operator account when it does not
// exist yet. It reports whether an account was created.
func (s *service) EnsureDefaultTailor(ctx context.Context) (bool, error) {
	if s.defaultTailor.Username == "" {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultTailor.Password), s.bcryptCost)
	if err != nil {
		return false, errors.Wrap(err, "failed to hash default password")
	}

	created, err := s.repo.CreateTailorIfAbsent(ctx, &models.Tailor{
		Username:     s.defaultTailor.Username,
		PasswordHash: string(hash),
		ShopName:     s.defaultTailor.ShopName,
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to seed default tailor")
	}
	if created {
		s.log.WithField("username", s.defaultTailor.Username).Info("Default tailor account created")
	}
	return created, nil
}

// CreateTailor adds an operator account
func (s *service) CreateTailor(ctx context.Context, in TailorInput) (*models.Tailor, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	tailor := &models.Tailor{
		Username:     in.Username,
		PasswordHash: string(hash),
		ShopName:     in.ShopName,
	}
	if err := s.repo.CreateTailor(ctx, tailor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, errors.Wrap(err, "failed to create tailor")
	}
	return tailor, nil
}

// ListTailors returns all operator accounts
func (s *service) ListTailors(ctx context.Context) ([]*models.Tailor, error) {
	return s.repo.ListTailors(ctx)
}

// ChangePassword sets a new password for the named tailor
func (s *service) ChangePassword(ctx context.Context, username, password string) error {
	if len(password) < 6 {
		return invalid("password", "password must be at least 6 characters")
	}

	tailor, err := s.repo.FindTailorByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTailorNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to look up tailor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}
	return s.repo.UpdateTailorPassword(ctx, tailor.ID, string(hash))
}
