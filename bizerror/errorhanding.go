package bizerror

import (
	"encoding/json"
	"errors"
	"fieldjobs/common"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{kind: ErrUnauthenticated, status: http.StatusUnauthorized, code: "common.unauthenticated", message: "unauthenticated"},
	{kind: ErrForbidden, status: http.StatusForbidden, code: "security.forbidden", message: "access forbidden"},
	{kind: ErrNotFound, status: http.StatusNotFound, code: "common.record_not_found", message: "record not found"},
	{kind: ErrInvalidTransition, status: http.StatusConflict, code: "job.invalid_transition", message: "invalid transition"},
	{kind: ErrAlreadyCancelled, status: http.StatusConflict, code: "task.already_cancelled", message: "task already cancelled"},
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	var bizErr BizError
	if errors.As(genericErr, &bizErr) {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request:  io.EOF (no body).
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "common.bad_param", Message: "EOF"})
		c.Abort()
		return
	}
	// bad request: json syntax Error
	var syntaxErr *json.SyntaxError
	if errors.As(genericErr, &syntaxErr) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "common.bad_param", Message: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	var validationErr validator.ValidationErrors
	if errors.As(genericErr, &validationErr) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "common.bad_param", Message: validationErr.Error()})
		c.Abort()
		return
	}

	for _, m := range errorMappings {
		if errors.Is(genericErr, m.kind) {
			c.JSON(m.status, &common.ErrorBody{Code: m.code, Message: MessageOf(genericErr, m.message)})
			c.Abort()
			return
		}
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: genericErr.Error()})
	c.Abort()
}
