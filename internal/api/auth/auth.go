// Package auth authenticates users and keeps them logged in through signed cookie sessions.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLocked             = errors.New("too many failed login attempts")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Authenticator checks local credentials and registers new accounts.
type Authenticator struct {
	db       database.DB
	attempts *cache.LoginAttempts
	cost     int
}

// NewAuthenticator creates an Authenticator. attempts may be nil to disable login throttling.
func NewAuthenticator(db database.DB, attempts *cache.LoginAttempts) *Authenticator {
	return &Authenticator{
		db:       db,
		attempts: attempts,
		cost:     bcrypt.DefaultCost,
	}
}

// Account holds the values needed to register a user.
type Account struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user with a hashed password.
func (a *Authenticator) Register(ctx context.Context, acc Account) (*database.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &database.User{
		Username:     acc.Username,
		Email:        acc.Email,
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		PasswordHash: string(hash),
	}
	if err := a.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("registered user", "username", user.Username, "id", user.ID)
	return user, nil
}

// Authenticate returns the user identified by username and password.
// Every failure counts towards the lockout of that username.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	if a.attempts != nil && a.attempts.Locked(ctx, username) {
		return nil, ErrLocked
	}

	user, err := a.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.fail(ctx, username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// accounts created through OIDC have no password
	if user.PasswordHash == "" {
		a.fail(ctx, username)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.fail(ctx, username)
		return nil, ErrInvalidCredentials
	}

	if a.attempts != nil {
		a.attempts.Reset(ctx, username)
	}
	return user, nil
}

func (a *Authenticator) fail(ctx context.Context, username string) {
	if a.attempts == nil {
		return
	}
	n := a.attempts.Fail(ctx, username)
	log.Debug("failed login attempt", "username", username, "attempts", n)
}
