package event

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
	g := r.Group("/events")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PATCH("/:id/checklist", h.updateChecklist)
	g.POST("/:id/workers", h.assignWorker)

	// Lives under /preregister to avoid a wildcard clash with /events/:id.
	r.POST("/preregister/:id/convert", h.createFromPreRegistration)
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
	actor := middleware.Identity(c)
	httpapi.Write[CreateRequest](c, http.StatusCreated, func(ctx context.Context, req *CreateRequest) (any, error) {
		return h.svc.Create(ctx, req, actor)
	})
}

func (h *Handler) createFromPreRegistration(c *gin.Context) {
	e, err := h.svc.CreateFromPreRegistration(c.Request.Context(), c.Param("id"), middleware.Identity(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, e)
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

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OKMessage(c, nil, "event deleted")
}

func (h *Handler) updateChecklist(c *gin.Context) {
	id := c.Param("id")
	httpapi.Write[ChecklistRequest](c, http.StatusOK, func(ctx context.Context, req *ChecklistRequest) (any, error) {
		return h.svc.UpdateChecklistField(ctx, id, req)
	})
}

func (h *Handler) assignWorker(c *gin.Context) {
	id := c.Param("id")
	httpapi.Write[AssignRequest](c, http.StatusCreated, func(ctx context.Context, req *AssignRequest) (any, error) {
		return h.svc.AssignWorker(ctx, id, req)
	})
}
