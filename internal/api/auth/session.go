package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/database"
)

const (
	SessionName = "yatube_session"

	sessionUserID    = "user_id"
	sessionOIDCState = "oidc_state"
)

// Sessions returns the session middleware backed by a signed cookie store.
func Sessions(key string, maxAge int) gin.HandlerFunc {
	store := cookie.NewStore([]byte(key))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

// Login starts a new session for user.
func Login(c *gin.Context, user *database.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserID, user.ID)
	return session.Save()
}

// Logout ends the current session.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

func getSessionUint(session sessions.Session, key string) (uint, bool) {
	if val := session.Get(key); val != nil {
		if id, ok := val.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
