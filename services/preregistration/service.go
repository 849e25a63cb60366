package preregistration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/services/notification"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	notifier *notification.Service
	repo     repository.Repository[PreRegistration]
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Notifier *notification.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		notifier: p.Notifier,
		repo:     repository.ProvideStore[PreRegistration](p.DB),
	}
}

type CreateRequest struct {
	NombreCompleto           string  `json:"nombre_completo" validate:"required,min=3"`
	Email                    string  `json:"email" validate:"required,email"`
	Telefono                 string  `json:"telefono"`
	TipoEvento               string  `json:"tipo_evento" validate:"required"`
	FechaEstimada            string  `json:"fecha_estimada" validate:"required,future"`
	NumeroInvitados          int     `json:"numero_invitados" validate:"required,gte=1"`
	Ubicacion                string  `json:"ubicacion" validate:"required"`
	PresupuestoEstimado      float64 `json:"presupuesto_estimado" validate:"gte=0"`
	RequerimientosEspeciales string  `json:"requerimientos_especiales"`
}

type CreateResponse struct {
	PreRegistrationID string `json:"preregistration_id"`
}

// Create persists a public submission with status pendiente. The
// acknowledgement email is dispatched afterwards and cannot fail the write;
// the review-queue notification is a post-write hook on the handler.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*PreRegistration, error) {
	fecha, err := time.Parse("2006-01-02", req.FechaEstimada)
	if err != nil {
		return nil, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: "fecha_estimada", Message: "must be a date in the format YYYY-MM-DD"}))
	}

	p := &PreRegistration{
		ID:                       s.node.Generate().String(),
		NombreCompleto:           req.NombreCompleto,
		Email:                    req.Email,
		Telefono:                 req.Telefono,
		TipoEvento:               req.TipoEvento,
		FechaEstimada:            fecha,
		NumeroInvitados:          req.NumeroInvitados,
		Ubicacion:                req.Ubicacion,
		PresupuestoEstimado:      req.PresupuestoEstimado,
		RequerimientosEspeciales: req.RequerimientosEspeciales,
		Estado:                   StatusPendiente,
		HistorialComentarios:     encodeHistory([]HistoryEntry{}),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, p)

	return p, nil
}

func (s *Service) notifyCreated(ctx context.Context, p *PreRegistration) {
	vars, _ := json.Marshal(map[string]string{
		"nombre":         p.NombreCompleto,
		"tipo_evento":    p.TipoEvento,
		"fecha_estimada": p.FechaEstimada.Format("2006-01-02"),
	})

	s.notifier.Dispatch(ctx, nil, &notification.Notification{
		Recipient:         p.Email,
		Kind:              "preregistration_received",
		Title:             "Solicitud recibida",
		Message:           fmt.Sprintf("Recibimos tu solicitud de %s para el %s.", p.TipoEvento, p.FechaEstimada.Format("2006-01-02")),
		PreRegistrationID: &p.ID,
		EmailTemplate:     "preregistration_received",
		EmailTo:           p.Email,
		EmailVars:         vars,
	})
}

type ListQuery struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente en_revision aprobado rechazado"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*PreRegistration, pagination.PageInfo, error) {
	query := &PreRegistration{}
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

func (s *Service) Get(ctx context.Context, id string) (*PreRegistration, error) {
	return s.repo.FindOne(ctx, &PreRegistration{ID: id})
}

type UpdateStatusRequest struct {
	Estado     string `json:"estado" validate:"required,oneof=pendiente en_revision aprobado rechazado"`
	Comentario string `json:"comentario"`
}

// UpdateStatus applies a status transition and appends exactly one history
// entry. Both writes happen in the same transaction so the log can never
// drift from the status column.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest, actor string) (*PreRegistration, error) {
	newStatus := Status(req.Estado)
	if !newStatus.Valid() {
		return nil, errutil.ValidationFailed("validation failed", nil,
			errutil.WithDetails(errutil.Detail{Field: "estado", Message: "must be one of: pendiente, en_revision, aprobado, rechazado"}))
	}

	var updated *PreRegistration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		p, err := repo.FindOne(ctx, &PreRegistration{ID: id})
		if err != nil {
			return err
		}

		previous := p.Estado
		if previous == "" {
			previous = StatusPendiente
		}

		history := append(p.History(), HistoryEntry{
			Fecha:          time.Now(),
			EstadoAnterior: string(previous),
			EstadoNuevo:    string(newStatus),
			Comentario:     req.Comentario,
			Actor:          actor,
		})

		if err := repo.Update(ctx, p.ID, map[string]any{
			"estado":                newStatus,
			"historial_comentarios": encodeHistory(history),
		}); err != nil {
			return err
		}

		p.Estado = newStatus
		p.HistorialComentarios = encodeHistory(history)
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, updated, req.Comentario)

	return updated, nil
}

func (s *Service) notifyStatusChange(ctx context.Context, p *PreRegistration, comentario string) {
	var template string
	switch p.Estado {
	case StatusAprobado:
		template = "preregistration_approved"
	case StatusRechazado:
		template = "preregistration_rejected"
	default:
		return
	}

	vars, _ := json.Marshal(map[string]string{
		"nombre":      p.NombreCompleto,
		"tipo_evento": p.TipoEvento,
		"comentario":  comentario,
	})

	s.notifier.Dispatch(ctx, nil, &notification.Notification{
		Recipient:         p.Email,
		Kind:              "preregistration_" + string(p.Estado),
		Title:             "Solicitud " + string(p.Estado),
		Message:           fmt.Sprintf("Tu solicitud de %s cambió a estado %s.", p.TipoEvento, p.Estado),
		PreRegistrationID: &p.ID,
		EmailTemplate:     template,
		EmailTo:           p.Email,
		EmailVars:         vars,
	})
}
