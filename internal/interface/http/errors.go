package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
	"github.com/oksasatya/go-ddd-blog/pkg/validation"
)

const msgInternal = "internal server error"

// fail maps any error onto the response envelope. Unexpected errors are logged
// and their message is replaced.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	msg := err.Error()
	if kind == apperror.Unexpected {
		if logger != nil {
			logger.WithError(err).
				WithField("request_id", c.GetString("request_id")).
				WithField("path", c.FullPath()).
				Error("request failed")
		}
		msg = msgInternal
	} else {
		var ae *apperror.Error
		if errors.As(err, &ae) {
			msg = ae.Message
		}
	}
	response.Fail(c, kind.Status(), msg, response.ErrorBody{Kind: kind.String()})
}

// invalid answers 400 with a field -> message map.
func invalid(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	response.Fail(c, http.StatusBadRequest, validation.Summary(details),
		response.ErrorBody{Kind: apperror.ValidationFailed.String(), Details: details})
}

// idParam parses a positive int64 path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, name+" must be a positive integer",
			response.ErrorBody{Kind: apperror.ValidationFailed.String(), Details: map[string]string{name: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func sizeQuery(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("size"))
	return n
}
