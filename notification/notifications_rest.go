package notification

import (
	"errors"
	"fieldjobs/bizerror"
	"fieldjobs/common"
	"fieldjobs/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

var (
	PathNotifications = "/v1/notifications"
)

type Inbox interface {
	ListForUser(userId types.ID) []Notification
	UnreadCount(userId types.ID) int
	MarkRead(id types.ID, userId types.ID) error
	MarkAllRead(userId types.ID)
}

type InboxBody struct {
	common.PagedBody
	Unread int `json:"unread"`
}

func RegisterNotificationsRestAPI(r *gin.Engine, inbox Inbox, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathNotifications, middleWares...)
	g.GET("", func(c *gin.Context) {
		s := session.ExtractSessionFromGinContext(c)
		list := inbox.ListForUser(s.Identity.ID)
		c.JSON(http.StatusOK, &InboxBody{
			PagedBody: common.PagedBody{List: list, Total: uint64(len(list))},
			Unread:    inbox.UnreadCount(s.Identity.ID),
		})
	})
	g.PUT(":id/read", func(c *gin.Context) {
		id, err := types.ParseID(c.Param("id"))
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
		}
		if err := inbox.MarkRead(id, session.ExtractSessionFromGinContext(c).Identity.ID); err != nil {
			panic(err)
		}
		c.Status(http.StatusNoContent)
	})
	// marks the whole inbox as read
	g.PUT("", func(c *gin.Context) {
		inbox.MarkAllRead(session.ExtractSessionFromGinContext(c).Identity.ID)
		c.Status(http.StatusNoContent)
	})
}
