package httputil

import (
	"net/http"

	"github.com/clitter/clitter/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// SetLogger binds the request scoped log entry to c.
func SetLogger(c *gin.Context, entry *logrus.Entry) {
	c.Set(loggerKey, entry)
}

// Logger returns the entry set by SetLogger, or one on the standard logger.
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// OK writes payload with result=true.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"result": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail aborts the request with the error body. Errors that are not service
// errors are logged and reported as internal.
func Fail(c *gin.Context, err error) {
	e, ok := services.AsError(err)
	if !ok {
		Logger(c).WithError(err).Error("Request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{
		"result":        false,
		"error_type":    e.Type,
		"error_message": e.Message,
	})
}

// FailBinding reports a request that could not be decoded or validated.
func FailBinding(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"result":        false,
		"error_type":    services.ErrInvalidParameters.Type,
		"error_message": err.Error(),
	})
}
