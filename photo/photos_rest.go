package photo

import (
	"fieldjobs/bizerror"
	"fieldjobs/session"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathPhotos = "/v1/photos"
)

func RegisterPhotosRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathPhotos, middleWares...)
	g.POST("", handleUploadPhoto)
	g.GET("*key", handleGetPhoto)
}

func handleUploadPhoto(c *gin.Context) {
	upload := PhotoUpload{}
	if err := c.ShouldBindWith(&upload, binding.FormMultipart); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	src, err := file.Open()
	if err != nil {
		panic(err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	p, err := UploadPhotoFunc(&upload, file.Filename, contentType, file.Size, src, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, p)
}

func handleGetPhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	r, err := DetailPhotoFunc(key, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	defer r.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		_ = c.Error(err)
	}
}
