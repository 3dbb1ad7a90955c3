package auth

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/forms"
)

var (
	errStateMismatch   = errors.New("oidc state mismatch")
	errMissingSubject  = errors.New("oidc token has no subject")
	errInvalidUsername = errors.New("oidc username is not a valid username")
)

func (p *OIDCProvider) Login(c *gin.Context) {
	state := uuid.New().String()

	session := sessions.Default(c)
	session.Set(sessionOIDCState, state)
	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	c.Redirect(http.StatusFound, p.config.AuthCodeURL(state))
}

func (p *OIDCProvider) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	session := sessions.Default(c)
	state := getSessionString(session, sessionOIDCState)
	session.Delete(sessionOIDCState)
	if state == "" || c.Query("state") != state {
		c.AbortWithError(http.StatusBadRequest, errStateMismatch) //nolint:errcheck
		return
	}

	oauth2Token, err := p.config.Exchange(ctx, c.Query("code"))
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.AbortWithError(http.StatusInternalServerError, errors.New("missing id_token")) //nolint:errcheck
		return
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
		Sub               string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	if claims.Sub == "" {
		c.AbortWithError(http.StatusUnauthorized, errMissingSubject) //nolint:errcheck
		return
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Sub
	}
	if !forms.ValidUsername(username) {
		log.Warn("OIDC login with unusable username", "username", username)
		c.AbortWithError(http.StatusBadRequest, errInvalidUsername) //nolint:errcheck
		return
	}

	user, err := p.db.GetOrCreateOIDCUser(ctx, claims.Sub, username, claims.Email)
	if err != nil {
		if errors.Is(err, database.ErrUsernameInUse) {
			log.Warn("OIDC login claims a taken username", "username", username)
			c.AbortWithError(http.StatusConflict, err) //nolint:errcheck
			return
		}
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	if err := Login(c, user); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	c.Redirect(http.StatusFound, "/")
}
