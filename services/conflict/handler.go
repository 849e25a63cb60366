package conflict

import (
	"context"
	"net/http"

	"banquet-backoffice/pkg/httpapi"
	"banquet-backoffice/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/conflicts")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("", h.detect)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.updateStatus)
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

func (h *Handler) detect(c *gin.Context) {
	result, err := h.svc.DetectScheduleConflicts(c.Request.Context())
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, result)
}

func (h *Handler) get(c *gin.Context) {
	cf, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, cf)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.Identity(c)
	httpapi.Write[UpdateStatusRequest](c, http.StatusOK, func(ctx context.Context, req *UpdateStatusRequest) (any, error) {
		return h.svc.UpdateStatus(ctx, id, req, actor)
	})
}
