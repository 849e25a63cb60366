package httpapi

import (
	"net/http"

	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the uniform response body every endpoint returns.
type Envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
	Details []errutil.Detail `json:"details,omitempty"`
}

// ListEnvelope wraps paginated collection responses.
type ListEnvelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data"`
	Pagination pagination.PageInfo `json:"pagination"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func OKMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Paginated(c *gin.Context, data any, info pagination.PageInfo) {
	c.JSON(http.StatusOK, ListEnvelope{Success: true, Data: data, Pagination: info})
}

// Fail translates err into the error envelope. Typed errors keep their status
// and details; anything untyped is logged with context and returned as a
// generic 500 so internals never leak to clients.
func Fail(c *gin.Context, err error) {
	if be, ok := errutil.From(err); ok {
		if be.Code == errutil.StatusInternal {
			zap.L().Error("internal error",
				zap.String("path", c.FullPath()),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
		}
		c.JSON(be.Code.HTTPStatus(), Envelope{
			Success: false,
			Error:   be.Message,
			Details: be.Details,
		})
		return
	}

	zap.L().Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   "internal server error",
	})
}
