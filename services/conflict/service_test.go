package conflict

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/services/event"
	"banquet-backoffice/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Conflict{}, &event.Event{}, &event.Assignment{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{Logger: zap.NewNop(), DB: db, Node: node})
}

func seedEvent(t *testing.T, svc *Service, id string, start, end time.Time) {
	t.Helper()
	require.NoError(t, svc.db.Create(&event.Event{
		ID: id, Title: "Evento " + id, StartsAt: start, EndsAt: end,
	}).Error)
}

func assign(t *testing.T, svc *Service, eventID, workerID string) {
	t.Helper()
	require.NoError(t, svc.db.Create(&event.Assignment{
		ID: eventID + "-" + workerID, EventID: eventID, WorkerID: workerID,
	}).Error)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2027, 6, 12, 14, 0, 0, 0, time.UTC)

	require.True(t, overlaps(base, base.Add(6*time.Hour), base.Add(3*time.Hour), base.Add(9*time.Hour)))
	require.False(t, overlaps(base, base.Add(6*time.Hour), base.Add(6*time.Hour), base.Add(9*time.Hour)))
	require.False(t, overlaps(base, base.Add(2*time.Hour), base.Add(3*time.Hour), base.Add(4*time.Hour)))
}

func TestDetectOpensConflictForOverlappingAssignments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))
	seedEvent(t, svc, "event-2", start.Add(3*time.Hour), start.Add(9*time.Hour))
	assign(t, svc, "event-1", "worker-1")
	assign(t, svc, "event-2", "worker-1")

	result, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Scanned)
	require.Len(t, result.Created, 1)
	require.Equal(t, KindScheduleOverlap, result.Created[0].Tipo)
	require.Equal(t, StatusAbierto, result.Created[0].Estado)
	require.Equal(t, []string{"worker-1"}, result.Created[0].Workers())
}

func TestDetectIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))
	seedEvent(t, svc, "event-2", start.Add(3*time.Hour), start.Add(9*time.Hour))
	assign(t, svc, "event-1", "worker-1")
	assign(t, svc, "event-2", "worker-1")

	first, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	second, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Empty(t, second.Created)
}

func TestDetectIgnoresDisjointSchedules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))
	seedEvent(t, svc, "event-2", start.AddDate(0, 0, 1), start.AddDate(0, 0, 1).Add(6*time.Hour))
	assign(t, svc, "event-1", "worker-1")
	assign(t, svc, "event-2", "worker-1")

	result, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Empty(t, result.Created)
}

func TestDetectSeparatesWorkers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))
	seedEvent(t, svc, "event-2", start.Add(1*time.Hour), start.Add(7*time.Hour))
	assign(t, svc, "event-1", "worker-1")
	assign(t, svc, "event-2", "worker-1")
	assign(t, svc, "event-1", "worker-2")
	assign(t, svc, "event-2", "worker-2")

	result, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
}

func TestUpdateStatusAppendsOneActionEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))

	c, err := svc.Create(ctx, &CreateRequest{
		EventID:   "event-1",
		WorkerIDs: []string{"worker-1", "worker-2"},
		Tipo:      "manual",
		Severidad: "alta",
	})
	require.NoError(t, err)
	require.Equal(t, StatusAbierto, c.Estado)

	updated, err := svc.UpdateStatus(ctx, c.ID,
		&UpdateStatusRequest{Estado: "resuelto", Comentario: "turnos reorganizados"}, "admin")
	require.NoError(t, err)
	require.Equal(t, StatusResuelto, updated.Estado)

	actions := updated.Actions()
	require.Len(t, actions, 1)
	require.Equal(t, "abierto", actions[0].EstadoAnterior)
	require.Equal(t, "resuelto", actions[0].EstadoNuevo)
	require.Equal(t, "admin", actions[0].Actor)
}

func TestDetectDistinguishesPrefixedWorkerIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	seedEvent(t, svc, "event-1", start, start.Add(6*time.Hour))
	seedEvent(t, svc, "event-2", start.Add(3*time.Hour), start.Add(9*time.Hour))
	assign(t, svc, "event-1", "worker-1")
	assign(t, svc, "event-2", "worker-1")

	// An open conflict for worker-10 on the same event must not count as
	// worker-1's: worker-1 is a prefix of worker-10, the lists are compared
	// by member, never by text.
	_, err := svc.Create(ctx, &CreateRequest{
		EventID:   "event-2",
		WorkerIDs: []string{"worker-10"},
		Tipo:      "schedule_overlap",
	})
	require.NoError(t, err)

	result, err := svc.DetectScheduleConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	require.Equal(t, []string{"worker-1"}, result.Created[0].Workers())
}
