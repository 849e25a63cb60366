package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/services/conflict"
	"banquet-backoffice/services/employer"
	"banquet-backoffice/services/event"
	"banquet-backoffice/services/penalty"
	"banquet-backoffice/services/preregistration"
	"banquet-backoffice/services/quote"
	"banquet-backoffice/services/testutil"
	"banquet-backoffice/services/worker"
	"gorm.io/gorm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&preregistration.PreRegistration{},
		&event.Event{},
		&worker.Worker{},
		&employer.Employer{},
		&quote.Quote{},
		&penalty.Penalty{},
		&conflict.Conflict{},
	)
	return NewService(ServiceParams{Logger: zap.NewNop(), DB: db}), db
}

func TestSummaryCountsByStatus(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&preregistration.PreRegistration{
		ID: "p1", NombreCompleto: "Ana López", Email: "ana@example.com",
		TipoEvento: "boda", FechaEstimada: time.Now(), NumeroInvitados: 100,
		Estado: preregistration.StatusPendiente,
	}).Error)
	require.NoError(t, db.Create(&preregistration.PreRegistration{
		ID: "p2", NombreCompleto: "Luis Vega", Email: "luis@example.com",
		TipoEvento: "corporativo", FechaEstimada: time.Now(), NumeroInvitados: 40,
		Estado: preregistration.StatusAprobado,
	}).Error)

	future := time.Now().AddDate(0, 1, 0)
	require.NoError(t, db.Create(&event.Event{
		ID: "e1", Title: "Boda García", StartsAt: future, EndsAt: future.Add(6 * time.Hour),
		Status: event.StatusPlanning,
	}).Error)
	require.NoError(t, db.Create(&event.Event{
		ID: "e2", Title: "Gala anual", StartsAt: future, EndsAt: future.Add(4 * time.Hour),
		Status: event.StatusCancelled,
	}).Error)

	require.NoError(t, db.Create(&worker.Worker{ID: "w1", Nombre: "Carlos", Email: "c@example.com"}).Error)
	require.NoError(t, db.Create(&employer.Employer{ID: "emp1", Empresa: "Azteca", Email: "m@example.com"}).Error)

	require.NoError(t, db.Create(&penalty.Penalty{
		ID: "pen1", WorkerID: "w1", EventID: "e1", Motivo: "tardía",
		Monto: 500, Severidad: penalty.SeverityLeve, Estado: penalty.StatusActiva,
	}).Error)
	require.NoError(t, db.Create(&penalty.Penalty{
		ID: "pen2", WorkerID: "w1", EventID: "e1", Motivo: "uniforme",
		Monto: 250, Severidad: penalty.SeverityLeve, Estado: penalty.StatusPagada,
	}).Error)

	require.NoError(t, db.Create(&conflict.Conflict{
		ID: "c1", EventID: "e1", Tipo: conflict.KindManual, Estado: conflict.StatusAbierto,
	}).Error)

	out, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(1), out.PreRegistrations["pendiente"])
	require.Equal(t, int64(1), out.PreRegistrations["aprobado"])
	require.Equal(t, int64(1), out.Events["planning"])
	require.Equal(t, int64(1), out.Events["cancelled"])
	require.Equal(t, int64(1), out.Workers)
	require.Equal(t, int64(1), out.Employers)
	require.Equal(t, int64(1), out.UpcomingEvents)
	require.Equal(t, int64(1), out.OpenConflicts)
	require.Equal(t, int64(1), out.ActivePenalties)
	require.Equal(t, 500.0, out.UnpaidPenaltyTotal)
}

func TestEventsReportBucketsByMonth(t *testing.T) {
	svc, db := newTestService(t)

	june := time.Date(2027, 6, 12, 14, 0, 0, 0, time.UTC)
	july := time.Date(2027, 7, 3, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&event.Event{
		ID: "e1", Title: "Boda García", StartsAt: june, EndsAt: june.Add(6 * time.Hour),
		GuestCount: 100, Budget: 50000,
	}).Error)
	require.NoError(t, db.Create(&event.Event{
		ID: "e2", Title: "XV Años", StartsAt: june.AddDate(0, 0, 7), EndsAt: june.AddDate(0, 0, 7).Add(5 * time.Hour),
		GuestCount: 150, Budget: 60000,
	}).Error)
	require.NoError(t, db.Create(&event.Event{
		ID: "e3", Title: "Gala anual", StartsAt: july, EndsAt: july.Add(4 * time.Hour),
		GuestCount: 300, Budget: 120000,
	}).Error)

	out, err := svc.Events(context.Background(), EventsQuery{From: "2027-06-01", To: "2027-07-31"})
	require.NoError(t, err)
	require.Len(t, out.Months, 2)

	require.Equal(t, "2027-06", out.Months[0].Month)
	require.Equal(t, int64(2), out.Months[0].Events)
	require.Equal(t, int64(250), out.Months[0].GuestCount)
	require.Equal(t, 110000.0, out.Months[0].TotalBudget)

	require.Equal(t, "2027-07", out.Months[1].Month)
	require.Equal(t, int64(1), out.Months[1].Events)
}

func TestEventsReportRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Events(context.Background(), EventsQuery{From: "2027-07-01", To: "2027-06-01"})
	require.Error(t, err)
}
