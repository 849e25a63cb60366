package document

import (
	"banquet-backoffice/pkg/errutil"
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
	g := r.Group("/documents")
	g.GET("", h.list)
	g.POST("", h.upload)
	g.GET("/:id", h.get)
	g.GET("/:id/download", h.download)
	g.DELETE("/:id", h.remove)
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

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httpapi.Fail(c, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: "file", Message: "file is required"})))
		return
	}

	doc, err := h.svc.Upload(c.Request.Context(), &UploadRequest{
		EntityType: c.PostForm("entity_type"),
		EntityID:   c.PostForm("entity_id"),
		UploadedBy: middleware.Identity(c),
		File:       file,
	})
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Created(c, doc)
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, doc)
}

func (h *Handler) download(c *gin.Context) {
	link, err := h.svc.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OK(c, link)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.OKMessage(c, nil, "document deleted")
}
