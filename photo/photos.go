package photo

import (
	"fieldjobs/bizerror"
	"fieldjobs/client/s3"
	"fieldjobs/common"
	"fieldjobs/domain/job"
	"fieldjobs/session"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	photoIdWorker = common.NewIdWorker()

	UploadPhotoFunc = UploadPhoto
	DetailPhotoFunc = DetailPhoto
)

const keyPrefix = "photos/"

type PhotoUpload struct {
	Category    job.PhotoCategory `form:"category" binding:"required"`
	Description string            `form:"description"`
}

// UploadPhoto stores the bytes and returns the metadata attached to a task later on.
func UploadPhoto(u *PhotoUpload, filename, contentType string, size int64, r io.Reader, s *session.Session) (*job.TaskPhoto, error) {
	if !u.Category.Valid() {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("unknown photo category %q", u.Category)}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("unsupported content type %q", contentType)}
	}

	id := common.NextId(photoIdWorker)
	key := keyPrefix + s.Identity.ID.String() + "/" + id.String() + strings.ToLower(path.Ext(filename))
	if err := s3.PutObjectFunc(s.Ctx(), key, r, oss.ContentType(contentType)); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"key": key, "size": size, "userId": s.Identity.ID}).Info("photo uploaded")

	return &job.TaskPhoto{
		ID:          id,
		URI:         key,
		Category:    u.Category,
		Description: u.Description,
		Timestamp:   types.CurrentTimestamp(),
		FileSize:    size,
	}, nil
}

func DetailPhoto(key string, s *session.Session) (io.ReadCloser, error) {
	if !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, "..") {
		return nil, bizerror.ErrNotFound
	}
	r, err := s3.GetObjectFunc(s.Ctx(), key)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}
