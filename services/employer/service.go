package employer

import (
	"context"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	node *snowflake.Node
	repo repository.Repository[Employer]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		node: p.Node,
		repo: repository.ProvideStore[Employer](p.DB),
	}
}

type CreateRequest struct {
	Empresa  string `json:"empresa" validate:"required,min=2"`
	Contacto string `json:"contacto"`
	Email    string `json:"email" validate:"required,email"`
	Telefono string `json:"telefono"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Employer, error) {
	e := &Employer{
		ID:       s.node.Generate().String(),
		Empresa:  req.Empresa,
		Contacto: req.Contacto,
		Email:    req.Email,
		Telefono: req.Telefono,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type ListQuery struct {
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Employer, pagination.PageInfo, error) {
	total, err := s.repo.Count(ctx, &Employer{})
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	rows, err := s.repo.Find(ctx, &Employer{},
		option.OrderBy("empresa ASC"),
		option.ApplyPagination(q.Pagination),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employer, error) {
	return s.repo.FindOne(ctx, &Employer{ID: id})
}

type UpdateRequest struct {
	Empresa    *string  `json:"empresa" validate:"omitempty,min=2"`
	Contacto   *string  `json:"contacto"`
	Telefono   *string  `json:"telefono"`
	TotalSpent *float64 `json:"total_spent" validate:"omitempty,gte=0"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Employer, error) {
	values := map[string]any{}
	if req.Empresa != nil {
		values["empresa"] = *req.Empresa
	}
	if req.Contacto != nil {
		values["contacto"] = *req.Contacto
	}
	if req.Telefono != nil {
		values["telefono"] = *req.Telefono
	}
	if req.TotalSpent != nil {
		values["total_spent"] = *req.TotalSpent
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
	return s.repo.FindOne(ctx, &Employer{ID: id})
}
