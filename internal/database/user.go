package database

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// ErrUsernameInUse is returned when an OIDC identity claims a username that
// belongs to another account.
var ErrUsernameInUse = errors.New("username belongs to another account")

// User represents an account that can log in and author posts.
// Accounts created through OIDC have an OIDCSubject and no PasswordHash.
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	OIDCSubject  *string `gorm:"column:oidc_subject;uniqueIndex"`
}

// FullName returns the user's first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Error("failed to create user", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreateOIDCUser returns the account linked to the issuer subject,
// creating a password-less one named username on first login.
// Existing accounts are never linked by username.
func (c *Client) GetOrCreateOIDCUser(ctx context.Context, subject, username, email string) (*User, error) {
	var user User
	err := c.db.WithContext(ctx).Where("oidc_subject = ?", subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("failed to get user by OIDC subject", "error", err)
		return nil, err
	}

	user = User{
		Username:    username,
		Email:       email,
		OIDCSubject: &subject,
	}
	if err := c.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameInUse
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		log.Error("failed to count users", "error", err)
		return 0, err
	}
	return count, nil
}
