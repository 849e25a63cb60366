package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hook runs after a successful write with the operation's result. Hooks are
// advisory: whatever they do (notifications, emails) must not affect the
// response, so their failures stay inside the hook.
type Hook func(ctx context.Context, result any)

// Write is the shared mutating pipeline: bind + validate the body, run the
// operation, fire post-write hooks, format the response. Every mutating
// handler is a thin closure over this instead of re-implementing the flow.
func Write[Req any](c *gin.Context, status int, op func(ctx context.Context, req *Req) (any, error), hooks ...Hook) {
	req, err := BindJSON[Req](c)
	if err != nil {
		Fail(c, err)
		return
	}

	result, err := op(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}

	for _, hook := range hooks {
		hook(c.Request.Context(), result)
	}

	if status == http.StatusCreated {
		Created(c, result)
		return
	}
	OK(c, result)
}
