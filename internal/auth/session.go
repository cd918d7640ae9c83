package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	SessionCookie = "vidspace_session"

	sessionUserKey  = "user_id"
	sessionStateKey = "oauth_state"

	sessionMaxAge = 7 * 24 * 60 * 60
)

// NewSessionStore keeps sessions in the database when db is non-nil and in
// a signed cookie otherwise.
func NewSessionStore(secret string, db *gorm.DB, secure bool) sessions.Store {
	var store sessions.Store
	if db != nil {
		store = gormsessions.NewStore(db, true, []byte(secret))
	} else {
		store = cookie.NewStore([]byte(secret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// session returns the request session, or nil when the sessions middleware
// is not installed.
func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func sessionUserID(c *gin.Context) string {
	s := session(c)
	if s == nil {
		return ""
	}
	id, _ := s.Get(sessionUserKey).(string)
	return id
}

func sessionsExpire() sessions.Options {
	return sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
}
