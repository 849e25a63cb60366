package penalty

import (
	"context"
	"time"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/services/event"
	"banquet-backoffice/services/worker"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParams struct {
	fx.In

	Logger *zap.Logger
	DB     *gorm.DB
	Node   *snowflake.Node
}

type Service struct {
	logger  *zap.Logger
	db      *gorm.DB
	node    *snowflake.Node
	repo    repository.Repository[Penalty]
	workers repository.Repository[worker.Worker]
	events  repository.Repository[event.Event]
}

func NewService(p ServiceParams) *Service {
	return &Service{
		logger:  p.Logger,
		db:      p.DB,
		node:    p.Node,
		repo:    repository.ProvideStore[Penalty](p.DB),
		workers: repository.ProvideStore[worker.Worker](p.DB),
		events:  repository.ProvideStore[event.Event](p.DB),
	}
}

type CreateRequest struct {
	WorkerID  string  `json:"worker_id" validate:"required"`
	EventID   string  `json:"event_id" validate:"required"`
	Motivo    string  `json:"motivo" validate:"required"`
	Monto     float64 `json:"monto" validate:"gte=0"`
	Severidad string  `json:"severidad" validate:"required,oneof=leve moderada grave"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Penalty, error) {
	if _, err := s.workers.FindOne(ctx, &worker.Worker{ID: req.WorkerID}); err != nil {
		return nil, err
	}
	if _, err := s.events.FindOne(ctx, &event.Event{ID: req.EventID}); err != nil {
		return nil, err
	}

	p := &Penalty{
		ID:        s.node.Generate().String(),
		WorkerID:  req.WorkerID,
		EventID:   req.EventID,
		Motivo:    req.Motivo,
		Monto:     req.Monto,
		Severidad: Severity(req.Severidad),
		Estado:    StatusActiva,
		Acciones:  encodeActions([]ActionEntry{}),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type ListQuery struct {
	WorkerID string `form:"worker_id"`
	EventID  string `form:"event_id"`
	Estado   string `form:"estado" validate:"omitempty,oneof=activa pagada apelada anulada"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Penalty, pagination.PageInfo, error) {
	query := &Penalty{WorkerID: q.WorkerID, EventID: q.EventID}
	if q.Estado != "" {
		query.Estado = Status(q.Estado)
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

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Penalty, error) {
	return s.repo.FindOne(ctx, &Penalty{ID: id}, option.Preload("Worker"), option.Preload("Event"))
}

type UpdateStatusRequest struct {
	Estado     string `json:"estado" validate:"required,oneof=activa pagada apelada anulada"`
	Comentario string `json:"comentario"`
}

// UpdateStatus transitions a penalty and appends exactly one action log
// entry. Both writes happen in the same transaction so the log can never
// drift from the status column.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest, actor string) (*Penalty, error) {
	var updated *Penalty
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		p, err := repo.FindOne(ctx, &Penalty{ID: id})
		if err != nil {
			return err
		}

		previous := p.Estado
		if previous == "" {
			previous = StatusActiva
		}

		actions := append(p.Actions(), ActionEntry{
			Fecha:          time.Now(),
			EstadoAnterior: string(previous),
			EstadoNuevo:    req.Estado,
			Comentario:     req.Comentario,
			Actor:          actor,
		})

		if err := repo.Update(ctx, p.ID, map[string]any{
			"estado":   req.Estado,
			"acciones": encodeActions(actions),
		}); err != nil {
			return err
		}

		p.Estado = Status(req.Estado)
		p.Acciones = encodeActions(actions)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
