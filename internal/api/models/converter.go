package models

import (
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/gravatar"
)

// ToUser converts a database.User to the view model. The password hash is never copied.
func ToUser(u *database.User, avatars *gravatar.Resolver) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName(),
		Email:     u.Email,
		AvatarURL: avatars.URL(u.Email),
	}
}
