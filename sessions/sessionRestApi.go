package sessions

import (
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var PathSession = "/v1/session"

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSession, middleWares...)
	g.GET("", DetailSession)
}

// DetailSession renews the token for the rest of its lifetime.
func DetailSession(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)

	now := time.Now()
	ttl := session.TokenExpiration - now.Sub(sec.SigningTime)
	if ttl <= 0 {
		panic(bizerror.ErrUnauthenticated)
	}
	renewed := session.Session{Token: sec.Token, Identity: sec.Identity, SigningTime: now}
	session.TokenCache.Set(sec.Token, &renewed, ttl)
	c.JSON(http.StatusOK, &renewed)
}
