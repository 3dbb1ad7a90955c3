package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/api/models"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/gravatar"
	"gorm.io/gorm"
)

// LoginPath is where guests are sent when a page requires authentication.
const LoginPath = "/auth/login/"

const contextUserKey = "user"

// LoadUser resolves the session user and stores it in the context.
// Guests get no user; handlers read it through CurrentUser.
func LoadUser(db database.DB, avatars *gravatar.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := getSessionUint(session, sessionUserID)
		if !ok {
			c.Next()
			return
		}

		user, err := db.GetUserByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(contextUserKey, models.ToUser(user, avatars))
		case errors.Is(err, gorm.ErrRecordNotFound):
			// the account is gone, drop the stale session
			session.Clear()
			if err := session.Save(); err != nil {
				log.Error("failed to clear session", "error", err)
			}
		default:
			log.Error("failed to load session user", "error", err, "user_id", userID)
		}
		c.Next()
	}
}

// CurrentUser returns the logged in user, or nil for guests.
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// RequireAuth redirects guests to the login page, remembering where they wanted to go.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL returns the login page URL that redirects back to next after logging in.
func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// SafeRedirect returns next if it points to a path on this site, fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
