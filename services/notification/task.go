package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"banquet-backoffice/pkg/mailer"
	"banquet-backoffice/pkg/repository"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var TaskModule = fx.Module("task.notification",
	fx.Provide(NewTask),
)

// Task drains the notification outbox: it renders and sends the email side
// channel for rows whose delivery has not been attempted yet.
type Task struct {
	db     *gorm.DB
	mailer mailer.Mailer
	repo   repository.Repository[Notification]
}

type TaskParams struct {
	fx.In
	DB     *gorm.DB
	Mailer mailer.Mailer
}

func NewTask(p TaskParams) *Task {
	return &Task{
		db:     p.DB,
		mailer: p.Mailer,
		repo:   repository.ProvideStore[Notification](p.DB),
	}
}

func (t *Task) HandleDeliver(ctx context.Context, at *asynq.Task) error {
	var payload deliverPayload
	if err := json.Unmarshal(at.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	zapLog := zap.L().With(
		zap.String("task_type", at.Type()),
		zap.String("notification_id", payload.NotificationID),
	)

	n, err := t.repo.FindOne(ctx, &Notification{ID: payload.NotificationID})
	if err != nil {
		zapLog.Warn("notification row not found, dropping delivery", zap.Error(err))
		return nil
	}

	if n.DeliveryState != DeliveryNotAttempted {
		// Already picked up once. Delivery outcomes are terminal.
		return nil
	}

	if err := t.repo.Update(ctx, n.ID, map[string]any{"delivery_state": DeliveryAttempted}); err != nil {
		zapLog.Warn("failed to mark delivery attempted", zap.Error(err))
		return nil
	}

	state := DeliveryDelivered
	var deliveredAt *time.Time

	if err := t.send(n); err != nil {
		zapLog.Warn("email delivery failed", zap.Error(err))
		state = DeliveryFailed
	} else {
		now := time.Now()
		deliveredAt = &now
	}

	if err := t.repo.Update(ctx, n.ID, map[string]any{
		"delivery_state": state,
		"delivered_at":   deliveredAt,
	}); err != nil {
		zapLog.Warn("failed to record delivery state", zap.Error(err))
	}

	// A failed delivery is terminal. Returning nil keeps asynq from retrying.
	return nil
}

func (t *Task) send(n *Notification) error {
	if n.EmailTemplate == "" || n.EmailTo == "" {
		return fmt.Errorf("notification %s has no email channel", n.ID)
	}

	var vars map[string]string
	if len(n.EmailVars) > 0 {
		if err := json.Unmarshal(n.EmailVars, &vars); err != nil {
			return fmt.Errorf("invalid email vars: %w", err)
		}
	}

	return t.mailer.Send(n.EmailTo, n.EmailTemplate, vars)
}
