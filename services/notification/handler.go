package notification

import (
	"context"
	"net/http"

	"banquet-backoffice/pkg/httpapi"
	"banquet-backoffice/pkg/mailer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	mailer mailer.Mailer
}

func NewHandler(svc *Service, m mailer.Mailer) *Handler {
	return &Handler{svc: svc, mailer: m}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/notifications")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("/:id/read", h.markRead)

	r.POST("/email/send", h.sendEmail)
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

func (h *Handler) markRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, n)
}

type SendEmailRequest struct {
	Template  string            `json:"template" validate:"required"`
	To        string            `json:"to" validate:"required,email"`
	Variables map[string]string `json:"variables"`
}

// sendEmail is a direct templated send. It always answers 200: the outcome
// is reported in the body because email is an advisory channel.
func (h *Handler) sendEmail(c *gin.Context) {
	req, err := httpapi.BindJSON[SendEmailRequest](c)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	if !h.mailer.Configured() {
		httpapi.OK(c, gin.H{"sent": false, "reason": "not_configured"})
		return
	}

	if err := h.mailer.Send(req.To, req.Template, req.Variables); err != nil {
		zap.L().Warn("direct email send failed", zap.String("template", req.Template), zap.Error(err))
		httpapi.OK(c, gin.H{"sent": false, "reason": err.Error()})
		return
	}

	httpapi.OK(c, gin.H{"sent": true})
}
