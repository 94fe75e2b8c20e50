package account

import (
	"errors"
	"fieldjobs/authority"
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathUsers = "/v1/users"
)

func RegisterUsersHandler(r *gin.Engine, d *Directory, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathUsers, middleWares...)
	g.GET("", func(c *gin.Context) {
		query := UserQuery{}
		if err := c.ShouldBindQuery(&query); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		var role authority.Role
		if query.Role != "" {
			r, ok := authority.ParseRole(query.Role)
			if !ok {
				panic(&bizerror.ErrBadParam{Cause: errors.New("unknown role '" + query.Role + "'")})
			}
			role = r
		}
		c.JSON(http.StatusOK, d.GetUsersByRole(role))
	})

	g.POST("", func(c *gin.Context) {
		creation := UserCreation{}
		if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		u, err := d.CreateUser(&creation, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusCreated, u)
	})

	g.PATCH(":id", func(c *gin.Context) {
		id, err := types.ParseID(c.Param("id"))
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
		}
		updating := UserUpdating{}
		if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		u, err := d.UpdateUser(id, &updating, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, u)
	})

	g.GET("me", func(c *gin.Context) {
		u, err := d.GetUser(session.ExtractSessionFromGinContext(c).Identity.ID)
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, u)
	})
}
