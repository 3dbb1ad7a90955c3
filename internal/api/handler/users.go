package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/api/auth"
	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/web/templates"
)

const (
	msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgLocked       = "Too many failed login attempts. Please try again later."
	msgTaken        = "A user with that username already exists."
)

// Signup shows and handles the registration form. New users are logged in right away.
func (h *Handler) Signup(c *gin.Context) {
	form := forms.NewSignupForm()

	if c.Request.Method != http.MethodPost || !form.Bind(c) {
		h.renderSignup(c, form)
		return
	}

	user, err := h.authn.Register(c.Request.Context(), auth.Account{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  form.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			form.AddError("username", msgTaken)
			h.renderSignup(c, form)
			return
		}
		h.ServerError(c, err)
		return
	}

	if err := auth.Login(c, user); err != nil {
		h.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) renderSignup(c *gin.Context, form *forms.SignupForm) {
	h.render(c, http.StatusOK, templates.Signup, SignupData{
		PageData: h.pageData(c),
		Form:     form,
	})
}

// Login shows and handles the login form.
func (h *Handler) Login(c *gin.Context) {
	form := forms.NewLoginForm()
	next := c.Query("next")

	if c.Request.Method != http.MethodPost {
		h.renderLogin(c, form, next)
		return
	}

	next = c.PostForm("next")
	if !form.Bind(c) {
		h.renderLogin(c, form, next)
		return
	}

	user, err := h.authn.Authenticate(c.Request.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, auth.ErrLocked):
		form.AddError("__all__", msgLocked)
		h.renderLogin(c, form, next)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		form.AddError("__all__", msgInvalidLogin)
		h.renderLogin(c, form, next)
		return
	case err != nil:
		h.ServerError(c, err)
		return
	}

	if err := auth.Login(c, user); err != nil {
		h.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, auth.SafeRedirect(next, "/"))
}

func (h *Handler) renderLogin(c *gin.Context, form *forms.LoginForm, next string) {
	data := LoginData{
		PageData: h.pageData(c),
		Form:     form,
		Next:     next,
	}
	if h.oidc != nil {
		data.OIDCName = h.oidc.Name()
	}
	h.render(c, http.StatusOK, templates.Login, data)
}

// Logout ends the session and confirms it.
func (h *Handler) Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		h.ServerError(c, err)
		return
	}
	h.render(c, http.StatusOK, templates.LoggedOut, LoggedOutData{})
}
