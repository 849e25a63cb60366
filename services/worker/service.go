package worker

import (
	"context"

	"banquet-backoffice/pkg/config"
	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	cfg  *config.Config
	repo repository.Repository[Worker]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		cfg:  p.Config,
		repo: repository.ProvideStore[Worker](p.DB),
	}
}

type CreateRequest struct {
	Nombre          string  `json:"nombre" validate:"required,min=3"`
	Email           string  `json:"email" validate:"required,email"`
	Telefono        string  `json:"telefono"`
	Especializacion string  `json:"especializacion"`
	TarifaHora      float64 `json:"tarifa_hora" validate:"gte=0"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Worker, error) {
	w := &Worker{
		ID:              s.node.Generate().String(),
		Nombre:          req.Nombre,
		Email:           req.Email,
		Telefono:        req.Telefono,
		Especializacion: req.Especializacion,
		TarifaHora:      req.TarifaHora,
		LoyaltyLevel:    LevelBronze,
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

type ListQuery struct {
	Especializacion string `form:"especializacion"`
	Level           string `form:"level" validate:"omitempty,oneof=bronze silver gold platinum"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Worker, pagination.PageInfo, error) {
	query := &Worker{Especializacion: q.Especializacion}
	if q.Level != "" {
		query.LoyaltyLevel = LoyaltyLevel(q.Level)
	}

	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	rows, err := s.repo.Find(ctx, query,
		option.OrderBy("nombre ASC"),
		option.ApplyPagination(q.Pagination),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Worker, error) {
	return s.repo.FindOne(ctx, &Worker{ID: id})
}

type UpdateRequest struct {
	Nombre          *string  `json:"nombre" validate:"omitempty,min=3"`
	Telefono        *string  `json:"telefono"`
	Especializacion *string  `json:"especializacion"`
	TarifaHora      *float64 `json:"tarifa_hora" validate:"omitempty,gte=0"`
	Rating          *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Worker, error) {
	values := map[string]any{}
	if req.Nombre != nil {
		values["nombre"] = *req.Nombre
	}
	if req.Telefono != nil {
		values["telefono"] = *req.Telefono
	}
	if req.Especializacion != nil {
		values["especializacion"] = *req.Especializacion
	}
	if req.TarifaHora != nil {
		values["tarifa_hora"] = *req.TarifaHora
	}
	if req.Rating != nil {
		values["rating"] = *req.Rating
	}

	if len(values) == 0 {
		return nil, errutil.BadRequest("no fields to update", nil)
	}

	if err := s.repo.Update(ctx, id, values); err != nil {
		return nil, err
	}
	return s.repo.FindOne(ctx, &Worker{ID: id})
}

type PointsRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason"`
}

// AddPoints adjusts the balance and rederives the loyalty level in the same
// transaction, so balance and tier can never disagree.
func (s *Service) AddPoints(ctx context.Context, id string, req *PointsRequest) (*Worker, error) {
	var updated *Worker
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		w, err := repo.FindOne(ctx, &Worker{ID: id})
		if err != nil {
			return err
		}

		points := w.LoyaltyPoints + req.Delta
		if points < 0 {
			points = 0
		}

		level := LevelFor(points, s.cfg.Loyalty)
		if err := repo.Update(ctx, w.ID, map[string]any{
			"loyalty_points": points,
			"loyalty_level":  level,
		}); err != nil {
			return err
		}

		w.LoyaltyPoints = points
		w.LoyaltyLevel = level
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
