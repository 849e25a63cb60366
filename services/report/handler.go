package report

import (
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
	g := r.Group("/reports")
	g.GET("/summary", h.summary)
	g.GET("/events", h.events)
}

func (h *Handler) summary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, out)
}

func (h *Handler) events(c *gin.Context) {
	q, err := httpapi.BindQuery[EventsQuery](c)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	out, err := h.svc.Events(c.Request.Context(), *q)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, out)
}
