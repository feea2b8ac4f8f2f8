// Package auth is the identity provider: email/password accounts with
// bcrypt hashing and JWT session tokens. The resolved identity is threaded
// through request context explicitly rather than read from a global.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Identity is the authenticated principal handed to request handlers.
type Identity struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

type Service struct {
	repo   *storage.Repository
	tokens *TokenManager
}

func NewService(repo *storage.Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and returns a fresh session token.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return Identity{}, "", ErrWeakPassword
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return Identity{}, "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Identity{}, "", fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := core.User{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return Identity{}, "", fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "uid", user.UID, "email", email)
	return s.issue(user)
}

// SignIn verifies credentials and returns a fresh session token. A wrong
// email and a wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, "", fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Identity{}, "", ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User signed in", "uid", user.UID)
	return s.issue(user)
}

// Resolve maps a session token back to the current identity, re-reading the
// user record so display-name edits show up on the next request.
func (s *Service) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	user, err := s.repo.GetUser(ctx, claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, ErrInvalidToken
	}
	if err != nil {
		return Identity{}, fmt.Errorf("resolve identity: %w", err)
	}
	return identityOf(user), nil
}

// UpdateDisplayName changes the user's display name.
func (s *Service) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return errors.New("display name cannot be empty")
	}
	if err := s.repo.UpdateDisplayName(ctx, uid, displayName); err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

func (s *Service) issue(user core.User) (Identity, string, error) {
	token, err := s.tokens.Issue(user.UID, user.DisplayName)
	if err != nil {
		return Identity{}, "", fmt.Errorf("issue session token: %w", err)
	}
	return identityOf(user), token, nil
}

func identityOf(u core.User) Identity {
	return Identity{
		UID:         u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}

// FirstName returns the leading word of the display name for greetings.
func (i Identity) FirstName() string {
	name := strings.TrimSpace(i.DisplayName)
	if name == "" {
		return "there"
	}
	return strings.SplitN(name, " ", 2)[0]
}
