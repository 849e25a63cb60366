package preregistration

import (
	"context"
	"net/http"

	"banquet-backoffice/pkg/httpapi"
	"banquet-backoffice/pkg/middleware"
	"banquet-backoffice/services/notification"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *Service
	notifier *notification.Service
}

func NewHandler(svc *Service, notifier *notification.Service) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// RegisterPublicRoutes exposes the submission endpoint without auth: it is
// the one surface prospective clients hit directly.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.POST("/preregister", h.create)
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/preregister")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.updateStatus)
}

func (h *Handler) create(c *gin.Context) {
	httpapi.Write[CreateRequest](c, http.StatusCreated, func(ctx context.Context, req *CreateRequest) (any, error) {
		p, err := h.svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return CreateResponse{PreRegistrationID: p.ID}, nil
	}, h.notifyIntakeQueue)
}

// notifyIntakeQueue leaves an in-app notification for the back-office review
// queue. It runs after the write and never affects the submission response.
func (h *Handler) notifyIntakeQueue(ctx context.Context, result any) {
	res, ok := result.(CreateResponse)
	if !ok {
		return
	}

	h.notifier.Dispatch(ctx, nil, &notification.Notification{
		Recipient:         "admin",
		Kind:              "preregistration_submitted",
		Title:             "Nueva solicitud",
		Message:           "Hay una nueva solicitud de evento pendiente de revisión.",
		PreRegistrationID: &res.PreRegistrationID,
	})
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

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, p)
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.Identity(c)

	httpapi.Write[UpdateStatusRequest](c, http.StatusOK, func(ctx context.Context, req *UpdateStatusRequest) (any, error) {
		return h.svc.UpdateStatus(ctx, id, req, actor)
	})
}
