package employer

import (
	"context"
	"net/http"

	"banquet-backoffice/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/employers")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
}

func (h *Handler) list(c *gin.Context) {
	q, err := httpapi.BindQuery[ListQuery](c)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	rows, info, err := h.svc.List(c.Request.Context(), *q)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Paginated(c, rows, info)
}

func (h *Handler) create(c *gin.Context) {
	httpapi.Write[CreateRequest](c, http.StatusCreated, func(ctx context.Context, req *CreateRequest) (any, error) {
		return h.svc.Create(ctx, req)
	})
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, e)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	httpapi.Write[UpdateRequest](c, http.StatusOK, func(ctx context.Context, req *UpdateRequest) (any, error) {
		return h.svc.Update(ctx, id, req)
	})
}
