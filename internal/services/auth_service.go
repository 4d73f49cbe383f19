package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	model "taskgroups.com/taskgroups/internal/models"
	"taskgroups.com/taskgroups/internal/store"
)

// Default account provisioned on first startup so the service is usable out
// of the box. This is an operational risk: replace it before exposing the
// service anywhere that matters.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

const bcryptCost = 10

type AuthService struct {
	store  store.Store
	logger *zap.Logger
}

func NewAuthService(st store.Store, logger *zap.Logger) *AuthService {
	return &AuthService{store: st, logger: logger}
}

// Verify checks Basic-Auth credentials. Lookup misses, hash mismatches and
// store failures all come back as a plain "not authorized"; nothing about
// the account's existence leaks to the caller.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*model.User, bool) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return user, true
}

// ResolveIdentity maps a verified username to its stable numeric identity.
func (s *AuthService) ResolveIdentity(ctx context.Context, username string) (*model.User, error) {
	return s.store.UserByUsername(ctx, username)
}

// EnsureDefaultUser seeds the default account when no users exist yet.
func (s *AuthService) EnsureDefaultUser(ctx context.Context) error {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.CreateUser(ctx, DefaultUsername, DefaultPassword); err != nil {
		return err
	}
	s.logger.Warn("default account created, change it before exposing this service",
		zap.String("username", DefaultUsername),
		zap.String("password", DefaultPassword))
	return nil
}

func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, username, string(hash))
}

// DeleteUser removes the account and cascades to all of its groups and
// tasks.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, user.ID)
}
