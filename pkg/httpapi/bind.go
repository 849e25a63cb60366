package httpapi

import (
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/validate"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into Req and runs schema validation,
// collecting every violation instead of stopping at the first.
func BindJSON[Req any](c *gin.Context) (*Req, error) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errutil.BadRequest("malformed request body", err)
	}
	if details := validate.Struct(&req); len(details) > 0 {
		return nil, errutil.ValidationFailed("validation failed", nil, errutil.WithDetails(details...))
	}
	return &req, nil
}

// BindQuery coerces query parameters into Req and validates them through the
// same schema path as request bodies.
func BindQuery[Req any](c *gin.Context) (*Req, error) {
	var req Req
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, errutil.BadRequest("malformed query parameters", err)
	}
	if details := validate.Struct(&req); len(details) > 0 {
		return nil, errutil.ValidationFailed("validation failed", nil, errutil.WithDetails(details...))
	}
	return &req, nil
}
