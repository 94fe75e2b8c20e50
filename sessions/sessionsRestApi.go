package sessions

import (
	"fieldjobs/account"
	"fieldjobs/authority"
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

var PathSessions = "/v1/sessions"

// Accounts resolves login names to users.
type Accounts interface {
	FindOrCreate(name string, role authority.Role) (*account.User, bool, error)
}

type LoginResponse struct {
	session.Session
	User    *account.User `json:"user"`
	Created bool          `json:"created"`
}

func RegisterSessionsHandler(r *gin.Engine, accounts Accounts) {
	g := r.Group(PathSessions)
	g.POST("", SimpleLoginHandler(accounts))
	g.DELETE("", SimpleLogoutHandler)
}

func SimpleLogoutHandler(c *gin.Context) {
	token, _ := c.Cookie(session.KeySecToken) // ErrNoCookie
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}

// SimpleLoginHandler accepts any non-empty name and password.
func SimpleLoginHandler(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		login := session.LoginRequest{}
		if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		role, _ := authority.ParseRole(login.Role)
		user, created, err := accounts.FindOrCreate(login.Name, role)
		if err != nil {
			panic(err)
		}

		token := uuid.New().String()
		s := session.Session{Token: token, Identity: session.Identity{ID: user.ID, Name: user.Name, Role: user.Role},
			SigningTime: time.Now()}
		session.TokenCache.Set(token, &s, cache.DefaultExpiration)
		logrus.WithFields(logrus.Fields{"userId": user.ID, "created": created}).Info("login")

		c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
		c.JSON(http.StatusOK, &LoginResponse{Session: s, User: user, Created: created})
	}
}
