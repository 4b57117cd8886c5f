package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"skygate/internal/domain/entity"
	"skygate/internal/domain/repository"
	"skygate/pkg/helpers"
)

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password". The two must stay indistinguishable to callers so
	// responses cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrEmailTaken       = errors.New("email is already taken")
)

// AuthService resolves identities against the credential store. It holds
// no state of its own; all durable state lives in the repository.
type AuthService struct {
	Repo          repository.UserRepository
	Logger        *logrus.Logger
	EmailFallback bool // match identifier against email when username misses
	UniqueEmail   bool // enforce email uniqueness at registration
}

func NewAuthService(repo repository.UserRepository, logger *logrus.Logger, emailFallback, uniqueEmail bool) *AuthService {
	return &AuthService{Repo: repo, Logger: logger, EmailFallback: emailFallback, UniqueEmail: uniqueEmail}
}

// Verify checks identifier+password against the store. The identifier is
// matched against username first and, when enabled, against email before
// failing. Lookup is case-sensitive. On success the returned user never
// carries the stored hash.
func (s *AuthService) Verify(ctx context.Context, identifier, password string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) && s.EmailFallback {
		u, err = s.Repo.GetByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("credential store: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	out := *u
	out.PasswordHash = ""
	return &out, nil
}

// RegisterInput carries the registration form fields. The plaintext
// password is hashed here and never persisted or logged.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	RepeatPassword string
	FirstName      string
	LastName       string
	Country        string
	City           string
	Zip            string
}

// Register validates the input, pre-checks uniqueness and inserts the new
// user. The pre-check-then-insert race is accepted; the schema's unique
// indexes are the backstop.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Password != in.RepeatPassword {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.Repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	if s.UniqueEmail {
		if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("credential store: %w", err)
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Country:      in.Country,
		City:         in.City,
		Zip:          in.Zip,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Lost the pre-check race: the schema's unique index rejected the
		// insert. Surface the same "taken" answer as the pre-check.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("credential store: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	}

	out := *u
	out.PasswordHash = ""
	return &out, nil
}
