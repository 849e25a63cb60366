package notification

import (
	"context"
	"encoding/json"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/pkg/task"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	node  *snowflake.Node
	asynq task.Enqueuer
	repo  repository.Repository[Notification]
}

type ServiceParams struct {
	fx.In
	DB    *gorm.DB
	Node  *snowflake.Node
	Asynq task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:    p.DB,
		node:  p.Node,
		asynq: p.Asynq,
		repo:  repository.ProvideStore[Notification](p.DB),
	}
}

type deliverPayload struct {
	NotificationID string `json:"notification_id"`
}

// Dispatch writes the notification row and hands delivery to the background
// worker. When tx is non-nil the row joins the caller's transaction, so the
// outbox entry commits atomically with the primary write. The return value
// reports whether the notification was accepted; it is advisory only and a
// false must never fail the triggering operation.
func (s *Service) Dispatch(ctx context.Context, tx *gorm.DB, n *Notification) bool {
	if n.ID == "" {
		n.ID = s.node.Generate().String()
	}
	if n.DeliveryState == "" {
		n.DeliveryState = DeliveryNotAttempted
	}

	if err := s.repo.WithTrx(tx).Create(ctx, n); err != nil {
		zap.L().Warn("failed to write notification row",
			zap.String("kind", n.Kind),
			zap.String("recipient", n.Recipient),
			zap.Error(err),
		)
		return false
	}

	s.enqueueDelivery(n)
	return true
}

// enqueueDelivery schedules the side-channel email. Failures are logged and
// dropped: the row already exists, delivery is best-effort.
func (s *Service) enqueueDelivery(n *Notification) {
	if s.asynq == nil || n.EmailTemplate == "" {
		return
	}

	payload, err := json.Marshal(deliverPayload{NotificationID: n.ID})
	if err != nil {
		zap.L().Warn("failed to marshal delivery payload", zap.Error(err))
		return
	}

	// Failed deliveries are terminal, so the task gets no retries.
	_, err = s.asynq.Enqueue(
		asynq.NewTask(task.TypeNotificationDeliver, payload),
		asynq.MaxRetry(0),
		asynq.Queue("low"),
	)
	if err != nil {
		zap.L().Warn("failed to enqueue notification delivery",
			zap.String("notification_id", n.ID),
			zap.Error(err),
		)
	}
}

type ListQuery struct {
	Recipient string `form:"recipient" validate:"required"`
	Unread    *bool  `form:"unread"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Notification, pagination.PageInfo, error) {
	query := &Notification{Recipient: q.Recipient}

	filters := []option.QueryOption{}
	if q.Unread != nil {
		filters = append(filters, option.Where("read = ?", !*q.Unread))
	}

	total, err := s.repo.Count(ctx, query, filters...)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	opts := append(filters,
		option.OrderBy("created_at DESC"),
		option.ApplyPagination(q.Pagination),
	)
	rows, err := s.repo.Find(ctx, query, opts...)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

type CreateRequest struct {
	Recipient         string         `json:"recipient" validate:"required"`
	Kind              string         `json:"kind" validate:"required"`
	Title             string         `json:"title"`
	Message           string         `json:"message" validate:"required"`
	EventID           *string        `json:"event_id"`
	PreRegistrationID *string        `json:"preregistration_id"`
	Payload           map[string]any `json:"payload"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Notification, error) {
	var payload []byte
	if req.Payload != nil {
		payload, _ = json.Marshal(req.Payload)
	}

	n := &Notification{
		ID:                s.node.Generate().String(),
		Recipient:         req.Recipient,
		Kind:              req.Kind,
		Title:             req.Title,
		Message:           req.Message,
		EventID:           req.EventID,
		PreRegistrationID: req.PreRegistrationID,
		Payload:           payload,
		DeliveryState:     DeliveryNotAttempted,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (*Notification, error) {
	if err := s.repo.Update(ctx, id, map[string]any{"read": true}); err != nil {
		return nil, err
	}
	return s.repo.FindOne(ctx, &Notification{ID: id})
}
