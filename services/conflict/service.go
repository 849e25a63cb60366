package conflict

import (
	"context"
	"fmt"
	"sort"
	"time"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/services/event"

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
	logger *zap.Logger
	db     *gorm.DB
	node   *snowflake.Node
	repo   repository.Repository[Conflict]
	events repository.Repository[event.Event]
}

func NewService(p ServiceParams) *Service {
	return &Service{
		logger: p.Logger,
		db:     p.DB,
		node:   p.Node,
		repo:   repository.ProvideStore[Conflict](p.DB),
		events: repository.ProvideStore[event.Event](p.DB),
	}
}

type CreateRequest struct {
	EventID     string   `json:"event_id" validate:"required"`
	WorkerIDs   []string `json:"worker_ids" validate:"required,min=1"`
	Tipo        string   `json:"tipo" validate:"required,oneof=schedule_overlap double_booking manual"`
	Severidad   string   `json:"severidad" validate:"omitempty,oneof=baja media alta"`
	Descripcion string   `json:"descripcion"`
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Conflict, error) {
	if _, err := s.events.FindOne(ctx, &event.Event{ID: req.EventID}); err != nil {
		return nil, err
	}

	severity := Severity(req.Severidad)
	if severity == "" {
		severity = SeverityMedia
	}

	c := &Conflict{
		ID:          s.node.Generate().String(),
		EventID:     req.EventID,
		WorkerIDs:   encodeWorkers(req.WorkerIDs),
		Tipo:        Kind(req.Tipo),
		Severidad:   severity,
		Descripcion: req.Descripcion,
		Estado:      StatusAbierto,
		Acciones:    encodeActions([]ActionEntry{}),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type ListQuery struct {
	EventID string `form:"event_id"`
	Tipo    string `form:"tipo" validate:"omitempty,oneof=schedule_overlap double_booking manual"`
	Estado  string `form:"estado" validate:"omitempty,oneof=abierto en_mediacion resuelto descartado"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Conflict, pagination.PageInfo, error) {
	query := &Conflict{EventID: q.EventID}
	if q.Tipo != "" {
		query.Tipo = Kind(q.Tipo)
	}
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

func (s *Service) Get(ctx context.Context, id string) (*Conflict, error) {
	return s.repo.FindOne(ctx, &Conflict{ID: id}, option.Preload("Event"))
}

type UpdateStatusRequest struct {
	Estado     string `json:"estado" validate:"required,oneof=abierto en_mediacion resuelto descartado"`
	Comentario string `json:"comentario"`
}

// UpdateStatus transitions a conflict and appends exactly one action log
// entry, both inside the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest, actor string) (*Conflict, error) {
	var updated *Conflict
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		c, err := repo.FindOne(ctx, &Conflict{ID: id})
		if err != nil {
			return err
		}

		previous := c.Estado
		if previous == "" {
			previous = StatusAbierto
		}

		actions := append(c.Actions(), ActionEntry{
			Fecha:          time.Now(),
			EstadoAnterior: string(previous),
			EstadoNuevo:    req.Estado,
			Comentario:     req.Comentario,
			Actor:          actor,
		})

		if err := repo.Update(ctx, c.ID, map[string]any{
			"estado":   req.Estado,
			"acciones": encodeActions(actions),
		}); err != nil {
			return err
		}

		c.Estado = Status(req.Estado)
		c.Acciones = encodeActions(actions)
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// window pairs an assignment with the schedule of its event.
type window struct {
	eventID string
	start   time.Time
	end     time.Time
}

type DetectionResult struct {
	Scanned int         `json:"scanned"`
	Created []*Conflict `json:"created"`
}

// DetectScheduleConflicts sweeps every event assignment, finds workers
// booked into overlapping event windows, and opens one schedule_overlap
// conflict per worker and event pair that does not already have an open
// one. The whole sweep runs in a single transaction so a rerun over
// unchanged data is a no-op.
func (s *Service) DetectScheduleConflicts(ctx context.Context) (*DetectionResult, error) {
	result := &DetectionResult{Created: []*Conflict{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignments []event.Assignment
		if err := tx.WithContext(ctx).Preload("Event").Find(&assignments).Error; err != nil {
			return errutil.Internal("store query failed", err)
		}
		result.Scanned = len(assignments)

		byWorker := map[string][]window{}
		for _, a := range assignments {
			if a.Event == nil {
				continue
			}
			byWorker[a.WorkerID] = append(byWorker[a.WorkerID], window{
				eventID: a.EventID,
				start:   a.Event.StartsAt,
				end:     a.Event.EndsAt,
			})
		}

		workers := make([]string, 0, len(byWorker))
		for w := range byWorker {
			workers = append(workers, w)
		}
		sort.Strings(workers)

		repo := s.repo.WithTrx(tx)

		// Dedupe against the decoded worker lists of open conflicts; the
		// stored JSON is never matched as raw text.
		open, err := repo.Find(ctx, &Conflict{Tipo: KindScheduleOverlap},
			option.Where("estado IN ?", []Status{StatusAbierto, StatusEnMediacion}),
		)
		if err != nil {
			return err
		}
		seen := map[string]bool{}
		for _, c := range open {
			for _, w := range c.Workers() {
				seen[c.EventID+"|"+w] = true
			}
		}

		for _, workerID := range workers {
			wins := byWorker[workerID]
			sort.Slice(wins, func(i, j int) bool { return wins[i].start.Before(wins[j].start) })

			for i := 0; i < len(wins); i++ {
				for j := i + 1; j < len(wins); j++ {
					if !overlaps(wins[i].start, wins[i].end, wins[j].start, wins[j].end) {
						continue
					}

					key := wins[j].eventID + "|" + workerID
					if seen[key] {
						continue
					}

					c := &Conflict{
						ID:        s.node.Generate().String(),
						EventID:   wins[j].eventID,
						WorkerIDs: encodeWorkers([]string{workerID}),
						Tipo:      KindScheduleOverlap,
						Severidad: SeverityAlta,
						Descripcion: fmt.Sprintf("worker %s is also assigned to event %s during this window",
							workerID, wins[i].eventID),
						Estado:   StatusAbierto,
						Acciones: encodeActions([]ActionEntry{}),
					}
					if err := repo.Create(ctx, c); err != nil {
						return err
					}
					seen[key] = true
					result.Created = append(result.Created, c)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule conflict sweep finished",
		zap.Int("assignments", result.Scanned),
		zap.Int("conflicts_created", len(result.Created)),
	)
	return result, nil
}
