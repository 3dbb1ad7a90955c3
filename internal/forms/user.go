package forms

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ValidUsername reports whether name is usable as a username.
func ValidUsername(name string) bool {
	return len(name) <= 150 && usernamePattern.MatchString(name)
}

type signupInput struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150"`
	Email     string `form:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// SignupForm registers a new account.
type SignupForm struct {
	Form

	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

func NewSignupForm() *SignupForm {
	return &SignupForm{
		Form: newForm(
			&Field{Name: "first_name", Label: "First name", Kind: CharField},
			&Field{Name: "last_name", Label: "Last name", Kind: CharField},
			&Field{
				Name:     "username",
				Label:    "Username",
				HelpText: "150 characters or fewer. Letters, digits and @/./+/-/_ only.",
				Kind:     CharField,
				Required: true,
			},
			&Field{Name: "email", Label: "Email address", Kind: EmailField},
			&Field{Name: "password1", Label: "Password", Kind: PasswordField, Required: true},
			&Field{Name: "password2", Label: "Password confirmation", Kind: PasswordField, Required: true},
		),
	}
}

// Bind reads and validates the submitted values. Password values are never echoed back.
func (f *SignupForm) Bind(c *gin.Context) bool {
	var in signupInput
	if err := c.ShouldBind(&in); err != nil {
		f.addBindError(err, map[string]string{
			"FirstName": "first_name",
			"LastName":  "last_name",
			"Username":  "username",
			"Email":     "email",
			"Password1": "password1",
			"Password2": "password2",
		})
	}

	f.FirstName = strings.TrimSpace(in.FirstName)
	f.LastName = strings.TrimSpace(in.LastName)
	f.Username = strings.TrimSpace(in.Username)
	f.Email = strings.TrimSpace(in.Email)
	f.Password = in.Password1

	f.Fields["first_name"].Value = f.FirstName
	f.Fields["last_name"].Value = f.LastName
	f.Fields["username"].Value = f.Username
	f.Fields["email"].Value = f.Email

	if f.Username != "" && !usernamePattern.MatchString(f.Username) {
		f.AddError("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	return f.Valid()
}

type loginInput struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginForm authenticates an existing account.
type LoginForm struct {
	Form

	Username string
	Password string
}

func NewLoginForm() *LoginForm {
	return &LoginForm{
		Form: newForm(
			&Field{Name: "username", Label: "Username", Kind: CharField, Required: true},
			&Field{Name: "password", Label: "Password", Kind: PasswordField, Required: true},
		),
	}
}

func (f *LoginForm) Bind(c *gin.Context) bool {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		f.addBindError(err, map[string]string{"Username": "username", "Password": "password"})
	}

	f.Username = strings.TrimSpace(in.Username)
	f.Password = in.Password
	f.Fields["username"].Value = f.Username

	return f.Valid()
}
