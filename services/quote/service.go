package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"banquet-backoffice/pkg/config"
	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/services/employer"
	"banquet-backoffice/services/notification"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	node      *snowflake.Node
	cfg       *config.Config
	notifier  *notification.Service
	repo      repository.Repository[Quote]
	employers repository.Repository[employer.Employer]
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Config   *config.Config
	Notifier *notification.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:        p.DB,
		node:      p.Node,
		cfg:       p.Config,
		notifier:  p.Notifier,
		repo:      repository.ProvideStore[Quote](p.DB),
		employers: repository.ProvideStore[employer.Employer](p.DB),
	}
}

type ItemRequest struct {
	Descripcion    string  `json:"descripcion" validate:"required"`
	Cantidad       int     `json:"cantidad" validate:"required,gte=1"`
	PrecioUnitario float64 `json:"precio_unitario" validate:"required,gt=0"`
}

type CreateRequest struct {
	EmployerID string        `json:"employer_id" validate:"required"`
	EventID    *string       `json:"event_id"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
	ExpiresAt  string        `json:"expires_at" validate:"required,future"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Quote, error) {
	if _, err := s.employers.FindOne(ctx, &employer.Employer{ID: req.EmployerID}); err != nil {
		return nil, err
	}

	expires, err := time.Parse("2006-01-02", req.ExpiresAt)
	if err != nil {
		return nil, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: "expires_at", Message: "must be a date in the format YYYY-MM-DD"}))
	}

	items := make([]LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, LineItem(it))
	}

	subtotal, tax, total := totals(items, s.cfg.Quote.TaxRate)

	q := &Quote{
		ID:         s.node.Generate().String(),
		EmployerID: req.EmployerID,
		EventID:    req.EventID,
		Items:      encodeItems(items),
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		ExpiresAt:  expires,
		Status:     StatusDraft,
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

type ListQuery struct {
	EmployerID string `form:"employer_id"`
	Status     string `form:"status" validate:"omitempty,oneof=draft sent accepted rejected expired"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Quote, pagination.PageInfo, error) {
	query := &Quote{EmployerID: q.EmployerID}
	if q.Status != "" {
		query.Status = Status(q.Status)
	}

	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	rows, err := s.repo.Find(ctx, query,
		option.OrderBy("created_at DESC"),
		option.ApplyPagination(q.Pagination),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	now := time.Now()
	for _, row := range rows {
		row.Status = row.EffectiveStatus(now)
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Quote, error) {
	q, err := s.repo.FindOne(ctx, &Quote{ID: id}, option.Preload("Employer"))
	if err != nil {
		return nil, err
	}
	q.Status = q.EffectiveStatus(time.Now())
	return q, nil
}

type UpdateRequest struct {
	Items     []ItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	ExpiresAt *string       `json:"expires_at" validate:"omitempty,future"`
	Status    *string       `json:"status" validate:"omitempty,oneof=draft sent accepted rejected expired"`
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Quote, error) {
	q, err := s.repo.FindOne(ctx, &Quote{ID: id})
	if err != nil {
		return nil, err
	}

	values := map[string]any{}

	if len(req.Items) > 0 {
		items := make([]LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, LineItem(it))
		}
		subtotal, tax, total := totals(items, s.cfg.Quote.TaxRate)
		values["items"] = encodeItems(items)
		values["subtotal"] = subtotal
		values["tax"] = tax
		values["total"] = total
	}

	if req.ExpiresAt != nil {
		expires, err := time.Parse("2006-01-02", *req.ExpiresAt)
		if err != nil {
			return nil, errutil.ValidationFailed("validation failed", err,
				errutil.WithDetails(errutil.Detail{Field: "expires_at", Message: "must be a date in the format YYYY-MM-DD"}))
		}
		values["expires_at"] = expires
	}

	notifySent := false
	if req.Status != nil && Status(*req.Status) != q.Status {
		values["status"] = *req.Status
		notifySent = Status(*req.Status) == StatusSent
	}

	if len(values) == 0 {
		return nil, errutil.BadRequest("no fields to update", nil)
	}

	if err := s.repo.Update(ctx, id, values); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindOne(ctx, &Quote{ID: id}, option.Preload("Employer"))
	if err != nil {
		return nil, err
	}

	if notifySent {
		s.notifySent(ctx, updated)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.repo.FindOne(ctx, &Quote{ID: id})
	if err != nil {
		return err
	}
	if q.Status != StatusDraft {
		return errutil.UnprocessableEntity("only draft quotes can be deleted", nil)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) notifySent(ctx context.Context, q *Quote) {
	if q.Employer == nil {
		return
	}

	vars, _ := json.Marshal(map[string]string{
		"nombre":   q.Employer.Contacto,
		"quote_id": q.ID,
		"total":    fmt.Sprintf("%.2f", q.Total),
		"expira":   q.ExpiresAt.Format("2006-01-02"),
	})

	s.notifier.Dispatch(ctx, nil, &notification.Notification{
		Recipient:     q.Employer.Email,
		Kind:          "quote_sent",
		Title:         "Cotización enviada",
		Message:       fmt.Sprintf("La cotización %s por %.2f fue enviada.", q.ID, q.Total),
		EventID:       q.EventID,
		EmailTemplate: "quote_sent",
		EmailTo:       q.Employer.Email,
		EmailVars:     vars,
	})
}
