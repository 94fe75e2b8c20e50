package photo_test

import (
	"bytes"
	"fieldjobs/authority"
	"fieldjobs/bizerror"
	"fieldjobs/domain/job"
	"fieldjobs/photo"
	"fieldjobs/session"
	"fieldjobs/testinfra"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func multipartBody(fields map[string]string, filename, contentType, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, _ := writer.CreatePart(h)
		_, _ = part.Write([]byte(content))
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func TestPhotosRestAPI(t *testing.T) {
	RegisterTestingT(t)
	tech := testinfra.BuildSession(10, authority.RoleTech)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	photo.RegisterPhotosRestAPI(router, func(c *gin.Context) {
		session.InjectSessionIntoGinContext(c, tech)
	})

	defer func() {
		photo.UploadPhotoFunc = photo.UploadPhoto
		photo.DetailPhotoFunc = photo.DetailPhoto
	}()

	t.Run("should upload multipart photo", func(t *testing.T) {
		var gotUpload photo.PhotoUpload
		var gotName, gotType, gotContent string
		photo.UploadPhotoFunc = func(u *photo.PhotoUpload, filename, contentType string, size int64, r io.Reader, s *session.Session) (*job.TaskPhoto, error) {
			gotUpload, gotName, gotType = *u, filename, contentType
			b, _ := ioutil.ReadAll(r)
			gotContent = string(b)
			Expect(s.Identity.ID).To(Equal(tech.Identity.ID))
			return &job.TaskPhoto{ID: 100, URI: "photos/10/100.jpg", Category: u.Category, Description: u.Description, FileSize: size}, nil
		}

		body, contentType := multipartBody(map[string]string{"category": "before", "description": "valve"}, "a.jpg", "image/jpeg", "jpeg-bytes")
		req := httptest.NewRequest(http.MethodPost, photo.PathPhotos, body)
		req.Header.Set("Content-Type", contentType)
		status, respBody, _ := testinfra.ExecuteRequest(req, router)

		Expect(status).To(Equal(http.StatusCreated))
		Expect(gotUpload).To(Equal(photo.PhotoUpload{Category: job.PhotoBefore, Description: "valve"}))
		Expect(gotName).To(Equal("a.jpg"))
		Expect(gotType).To(Equal("image/jpeg"))
		Expect(gotContent).To(Equal("jpeg-bytes"))
		Expect(respBody).To(ContainSubstring(`"uri":"photos/10/100.jpg"`))
		Expect(respBody).To(ContainSubstring(`"fileSize":10`))
	})

	t.Run("should reject upload without file", func(t *testing.T) {
		photo.UploadPhotoFunc = photo.UploadPhoto
		body, contentType := multipartBody(map[string]string{"category": "before"}, "", "", "")
		req := httptest.NewRequest(http.MethodPost, photo.PathPhotos, body)
		req.Header.Set("Content-Type", contentType)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should stream photo content", func(t *testing.T) {
		photo.DetailPhotoFunc = func(key string, s *session.Session) (io.ReadCloser, error) {
			Expect(key).To(Equal("photos/10/100.jpg"))
			return ioutil.NopCloser(strings.NewReader("jpeg-bytes")), nil
		}
		req := httptest.NewRequest(http.MethodGet, photo.PathPhotos+"/photos/10/100.jpg", nil)
		status, respBody, resp := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(respBody).To(Equal("jpeg-bytes"))
		Expect(resp.Header.Get("Content-Type")).To(Equal("image/jpeg"))
	})

	t.Run("should map missing photo to 404", func(t *testing.T) {
		photo.DetailPhotoFunc = func(key string, s *session.Session) (io.ReadCloser, error) {
			return nil, bizerror.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodGet, photo.PathPhotos+"/photos/10/404.jpg", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
	})
}
