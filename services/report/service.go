package report

import (
	"context"
	"time"

	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/services/conflict"
	"banquet-backoffice/services/employer"
	"banquet-backoffice/services/event"
	"banquet-backoffice/services/penalty"
	"banquet-backoffice/services/preregistration"
	"banquet-backoffice/services/quote"
	"banquet-backoffice/services/worker"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParams struct {
	fx.In

	Logger *zap.Logger
	DB     *gorm.DB
}

type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{logger: p.Logger, db: p.DB}
}

type Summary struct {
	PreRegistrations   map[string]int64 `json:"preregistrations"`
	Events             map[string]int64 `json:"events"`
	Quotes             map[string]int64 `json:"quotes"`
	Workers            int64            `json:"workers"`
	Employers          int64            `json:"employers"`
	UpcomingEvents     int64            `json:"upcoming_events"`
	OpenConflicts      int64            `json:"open_conflicts"`
	ActivePenalties    int64            `json:"active_penalties"`
	UnpaidPenaltyTotal float64          `json:"unpaid_penalty_total"`
}

type statusCount struct {
	Status string
	Total  int64
}

// Summary aggregates operational counters across every entity. The queries
// run sequentially against the same connection; reports are synchronous and
// read-only.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{
		PreRegistrations: map[string]int64{},
		Events:           map[string]int64{},
		Quotes:           map[string]int64{},
	}
	db := s.db.WithContext(ctx)

	if err := countByStatus(db, &preregistration.PreRegistration{}, "estado", out.PreRegistrations); err != nil {
		return nil, err
	}
	if err := countByStatus(db, &event.Event{}, "status", out.Events); err != nil {
		return nil, err
	}
	if err := countByStatus(db, &quote.Quote{}, "status", out.Quotes); err != nil {
		return nil, err
	}

	if err := db.Model(&worker.Worker{}).Count(&out.Workers).Error; err != nil {
		return nil, errutil.Internal("store count failed", err)
	}
	if err := db.Model(&employer.Employer{}).Count(&out.Employers).Error; err != nil {
		return nil, errutil.Internal("store count failed", err)
	}

	if err := db.Model(&event.Event{}).
		Where("starts_at > ?", time.Now()).
		Where("status NOT IN ?", []event.Status{event.StatusCancelled}).
		Count(&out.UpcomingEvents).Error; err != nil {
		return nil, errutil.Internal("store count failed", err)
	}

	if err := db.Model(&conflict.Conflict{}).
		Where("estado IN ?", []conflict.Status{conflict.StatusAbierto, conflict.StatusEnMediacion}).
		Count(&out.OpenConflicts).Error; err != nil {
		return nil, errutil.Internal("store count failed", err)
	}

	if err := db.Model(&penalty.Penalty{}).
		Where("estado = ?", penalty.StatusActiva).
		Count(&out.ActivePenalties).Error; err != nil {
		return nil, errutil.Internal("store count failed", err)
	}

	var unpaid struct{ Total float64 }
	if err := db.Model(&penalty.Penalty{}).
		Select("COALESCE(SUM(monto), 0) AS total").
		Where("estado IN ?", []penalty.Status{penalty.StatusActiva, penalty.StatusApelada}).
		Scan(&unpaid).Error; err != nil {
		return nil, errutil.Internal("store aggregate failed", err)
	}
	out.UnpaidPenaltyTotal = unpaid.Total

	return out, nil
}

func countByStatus(db *gorm.DB, model any, column string, into map[string]int64) error {
	var rows []statusCount
	if err := db.Model(model).
		Select(column + " AS status, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error; err != nil {
		return errutil.Internal("store aggregate failed", err)
	}
	for _, r := range rows {
		into[r.Status] = r.Total
	}
	return nil
}

type EventsQuery struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to" validate:"required,datetime=2006-01-02"`
}

type MonthBucket struct {
	Month       string  `json:"month"`
	Events      int64   `json:"events"`
	GuestCount  int64   `json:"guest_count"`
	TotalBudget float64 `json:"total_budget"`
}

type EventsReport struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Months []MonthBucket `json:"months"`
}

// Events buckets events in the window by calendar month. The grouping runs
// in Go so the report behaves the same on sqlite and postgres.
func (s *Service) Events(ctx context.Context, q EventsQuery) (*EventsReport, error) {
	from, err := time.Parse("2006-01-02", q.From)
	if err != nil {
		return nil, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: "from", Message: "must be a date in 2006-01-02 format"}))
	}
	to, err := time.Parse("2006-01-02", q.To)
	if err != nil {
		return nil, errutil.ValidationFailed("validation failed", err,
			errutil.WithDetails(errutil.Detail{Field: "to", Message: "must be a date in 2006-01-02 format"}))
	}
	if !to.After(from) {
		return nil, errutil.ValidationFailed("validation failed", nil,
			errutil.WithDetails(errutil.Detail{Field: "to", Message: "must be after from"}))
	}

	var events []*event.Event
	if err := s.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", from, to.AddDate(0, 0, 1)).
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return nil, errutil.Internal("store query failed", err)
	}

	buckets := map[string]*MonthBucket{}
	order := []string{}
	for _, e := range events {
		month := e.StartsAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &MonthBucket{Month: month}
			buckets[month] = b
			order = append(order, month)
		}
		b.Events++
		b.GuestCount += int64(e.GuestCount)
		b.TotalBudget += e.Budget
	}

	report := &EventsReport{From: q.From, To: q.To, Months: make([]MonthBucket, 0, len(order))}
	for _, month := range order {
		report.Months = append(report.Months, *buckets[month])
	}
	return report, nil
}
