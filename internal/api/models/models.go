package models

// User is the viewer of a page as exposed to handlers and templates.
type User struct {
	ID        uint
	Username  string
	FullName  string
	Email     string
	AvatarURL string // empty when avatars are disabled
}
