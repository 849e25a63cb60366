package event

import (
	"context"
	"time"

	"banquet-backoffice/pkg/config"
	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/services/preregistration"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	node    *snowflake.Node
	cfg     *config.Config
	repo    repository.Repository[Event]
	assigns repository.Repository[Assignment]
	preregs repository.Repository[preregistration.PreRegistration]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:      p.DB,
		node:    p.Node,
		cfg:     p.Config,
		repo:    repository.ProvideStore[Event](p.DB),
		assigns: repository.ProvideStore[Assignment](p.DB),
		preregs: repository.ProvideStore[preregistration.PreRegistration](p.DB),
	}
}

type CreateRequest struct {
	Title      string  `json:"title" validate:"required,min=3"`
	StartsAt   string  `json:"starts_at" validate:"required,future"`
	EndsAt     string  `json:"ends_at" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	GuestCount int     `json:"guest_count" validate:"required,gte=1"`
	Budget     float64 `json:"budget" validate:"gte=0"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest, actor string) (*Event, error) {
	starts, err := parseDate(req.StartsAt, "starts_at")
	if err != nil {
		return nil, err
	}
	ends, err := parseDate(req.EndsAt, "ends_at")
	if err != nil {
		return nil, err
	}
	if !ends.After(starts) {
		return nil, errutil.ValidationFailed("validation failed", nil,
			errutil.WithDetails(errutil.Detail{Field: "ends_at", Message: "must be after starts_at"}))
	}

	e := &Event{
		ID:            s.node.Generate().String(),
		Title:         req.Title,
		Slug:          slug.Make(req.Title),
		StartsAt:      starts,
		EndsAt:        ends,
		Location:      req.Location,
		GuestCount:    req.GuestCount,
		Budget:        req.Budget,
		Status:        StatusPlanning,
		CreatedBy:     actor,
		ChecklistData: encodeChecklist(Checklist{}),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateFromPreRegistration derives a confirmed event from an approved
// request, carrying its schedule, headcount and budget over.
func (s *Service) CreateFromPreRegistration(ctx context.Context, preRegistrationID, actor string) (*Event, error) {
	p, err := s.preregs.FindOne(ctx, &preregistration.PreRegistration{ID: preRegistrationID})
	if err != nil {
		return nil, err
	}

	if p.Estado != preregistration.StatusAprobado {
		return nil, errutil.UnprocessableEntity("preregistration is not approved", nil)
	}

	e := &Event{
		ID:                s.node.Generate().String(),
		Title:             p.TipoEvento + " - " + p.NombreCompleto,
		Slug:              slug.Make(p.TipoEvento + " " + p.NombreCompleto),
		StartsAt:          p.FechaEstimada,
		EndsAt:            p.FechaEstimada.Add(6 * time.Hour),
		Location:          p.Ubicacion,
		GuestCount:        p.NumeroInvitados,
		Budget:            p.PresupuestoEstimado,
		Status:            StatusPlanning,
		CreatedBy:         actor,
		PreRegistrationID: &p.ID,
		ChecklistData:     encodeChecklist(Checklist{}),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type ListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=planning in_progress completed cancelled"`
	From   string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Event, pagination.PageInfo, error) {
	query := &Event{}
	if q.Status != "" {
		query.Status = Status(q.Status)
	}

	filters := []option.QueryOption{}
	if q.From != "" {
		from, _ := time.Parse("2006-01-02", q.From)
		filters = append(filters, option.Where("starts_at >= ?", from))
	}
	if q.To != "" {
		to, _ := time.Parse("2006-01-02", q.To)
		filters = append(filters, option.Where("starts_at < ?", to.AddDate(0, 0, 1)))
	}

	total, err := s.repo.Count(ctx, query, filters...)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	opts := append(filters,
		option.OrderBy("starts_at ASC"),
		option.ApplyPagination(q.Pagination),
	)
	rows, err := s.repo.Find(ctx, query, opts...)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.FindOne(ctx, &Event{ID: id}, option.Preload("PreRegistration"))
}

type UpdateRequest struct {
	Title      *string  `json:"title" validate:"omitempty,min=3"`
	StartsAt   *string  `json:"starts_at" validate:"omitempty,datetime=2006-01-02"`
	EndsAt     *string  `json:"ends_at" validate:"omitempty,datetime=2006-01-02"`
	Location   *string  `json:"location"`
	GuestCount *int     `json:"guest_count" validate:"omitempty,gte=1"`
	Budget     *float64 `json:"budget" validate:"omitempty,gte=0"`
	Status     *string  `json:"status" validate:"omitempty,oneof=planning in_progress completed cancelled"`
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Event, error) {
	values := map[string]any{}
	if req.Title != nil {
		values["title"] = *req.Title
		values["slug"] = slug.Make(*req.Title)
	}
	if req.StartsAt != nil || req.EndsAt != nil {
		// A partial write can still invert the window; re-check the pair
		// against the stored row.
		current, err := s.repo.FindOne(ctx, &Event{ID: id})
		if err != nil {
			return nil, err
		}
		starts, ends := current.StartsAt, current.EndsAt
		if req.StartsAt != nil {
			starts, _ = time.Parse("2006-01-02", *req.StartsAt)
			values["starts_at"] = starts
		}
		if req.EndsAt != nil {
			ends, _ = time.Parse("2006-01-02", *req.EndsAt)
			values["ends_at"] = ends
		}
		if !ends.After(starts) {
			return nil, errutil.ValidationFailed("validation failed", nil,
				errutil.WithDetails(errutil.Detail{Field: "ends_at", Message: "must be after starts_at"}))
		}
	}
	if req.Location != nil {
		values["location"] = *req.Location
	}
	if req.GuestCount != nil {
		values["guest_count"] = *req.GuestCount
	}
	if req.Budget != nil {
		values["budget"] = *req.Budget
	}
	if req.Status != nil {
		values["status"] = *req.Status
	}

	if len(values) == 0 {
		return nil, errutil.BadRequest("no fields to update", nil)
	}

	if err := s.repo.Update(ctx, id, values); err != nil {
		return nil, err
	}
	return s.repo.FindOne(ctx, &Event{ID: id})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

type ChecklistRequest struct {
	Categoria string `json:"categoria" validate:"required"`
	Campo     string `json:"campo" validate:"required"`
	Valor     any    `json:"valor"`
}

// UpdateChecklistField writes one checklist field and recomputes the
// category's derived completion flag. The write is version-guarded: if a
// concurrent update landed in between, it retries once against fresh state
// before giving up with a conflict.
func (s *Service) UpdateChecklistField(ctx context.Context, id string, req *ChecklistRequest) (*Event, error) {
	for attempt := 0; attempt < 2; attempt++ {
		e, err := s.repo.FindOne(ctx, &Event{ID: id})
		if err != nil {
			return nil, err
		}

		cl := e.Checklist()
		cat, ok := cl[req.Categoria]
		if !ok || cat == nil {
			cat = &Category{Campos: map[string]any{}}
			cl[req.Categoria] = cat
		}
		if cat.Campos == nil {
			cat.Campos = map[string]any{}
		}

		cat.Campos[req.Campo] = req.Valor

		required, known := s.cfg.Checklist.RequiredFields[req.Categoria]
		cat.Completado = known && complete(cat, required)

		res := s.db.WithContext(ctx).Model(&Event{}).
			Where("id = ? AND version = ?", e.ID, e.Version).
			Updates(map[string]any{
				"checklist": encodeChecklist(cl),
				"version":   e.Version + 1,
			})
		if res.Error != nil {
			return nil, errutil.Internal("store update failed", res.Error)
		}
		if res.RowsAffected > 0 {
			return s.repo.FindOne(ctx, &Event{ID: id})
		}
		// Lost the race, reload and retry once.
	}

	return nil, errutil.Conflict("checklist was modified concurrently, retry", nil)
}

type AssignRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
	Role     string `json:"role"`
}

func (s *Service) AssignWorker(ctx context.Context, eventID string, req *AssignRequest) (*Assignment, error) {
	if _, err := s.repo.FindOne(ctx, &Event{ID: eventID}); err != nil {
		return nil, err
	}

	existing, err := s.assigns.Find(ctx, &Assignment{EventID: eventID, WorkerID: req.WorkerID})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errutil.Conflict("worker already assigned to this event", nil)
	}

	a := &Assignment{
		ID:       s.node.Generate().String(),
		EventID:  eventID,
		WorkerID: req.WorkerID,
		Role:     req.Role,
	}
	if err := s.assigns.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func parseDate(v, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: field, Message: "must be a date in the format YYYY-MM-DD"}))
	}
	return t, nil
}
