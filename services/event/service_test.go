package event

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/pkg/config"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/services/preregistration"
	"banquet-backoffice/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Event{}, &Assignment{}, &preregistration.PreRegistration{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node, Config: config.NewTest()})
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func createEvent(t *testing.T, svc *Service) *Event {
	t.Helper()

	e, err := svc.Create(context.Background(), &CreateRequest{
		Title:      "Boda García",
		StartsAt:   futureDate(30),
		EndsAt:     futureDate(31),
		Location:   "Salón Central",
		GuestCount: 80,
		Budget:     50000,
	}, "admin")
	require.NoError(t, err)
	return e
}

func TestCreateSlugsTitle(t *testing.T) {
	svc := newTestService(t)

	e := createEvent(t, svc)
	require.Equal(t, "boda-garcia", e.Slug)
	require.Equal(t, StatusPlanning, e.Status)
	require.Empty(t, e.Checklist())
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), &CreateRequest{
		Title:      "Evento corto",
		StartsAt:   futureDate(31),
		EndsAt:     futureDate(30),
		Location:   "Salón Central",
		GuestCount: 10,
	}, "admin")
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusValidationFailed, be.Code)
}

func TestChecklistCompletesWhenAllRequiredFilled(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)
	ctx := context.Background()

	for _, campo := range []string{"direccion", "capacidad_confirmada"} {
		_, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
			Categoria: "lugar", Campo: campo, Valor: "listo",
		})
		require.NoError(t, err)
	}

	partial, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.False(t, partial.Checklist()["lugar"].Completado)

	updated, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
		Categoria: "lugar", Campo: "contrato_firmado", Valor: true,
	})
	require.NoError(t, err)
	require.True(t, updated.Checklist()["lugar"].Completado)
}

func TestChecklistRegressesWhenFieldCleared(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)
	ctx := context.Background()

	for _, campo := range []string{"direccion", "capacidad_confirmada", "contrato_firmado"} {
		_, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
			Categoria: "lugar", Campo: campo, Valor: "listo",
		})
		require.NoError(t, err)
	}

	complete, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, complete.Checklist()["lugar"].Completado)

	updated, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
		Categoria: "lugar", Campo: "contrato_firmado", Valor: "",
	})
	require.NoError(t, err)
	require.False(t, updated.Checklist()["lugar"].Completado)
}

func TestChecklistUnknownCategoryNeverCompletes(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)

	updated, err := svc.UpdateChecklistField(context.Background(), e.ID, &ChecklistRequest{
		Categoria: "pirotecnia", Campo: "permiso", Valor: true,
	})
	require.NoError(t, err)
	require.False(t, updated.Checklist()["pirotecnia"].Completado)
	require.Equal(t, true, updated.Checklist()["pirotecnia"].Campos["permiso"])
}

func TestChecklistUpdateBumpsVersion(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)
	ctx := context.Background()

	first, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
		Categoria: "lugar", Campo: "direccion", Valor: "Av. Reforma 100",
	})
	require.NoError(t, err)
	require.Equal(t, e.Version+1, first.Version)

	second, err := svc.UpdateChecklistField(ctx, e.ID, &ChecklistRequest{
		Categoria: "lugar", Campo: "capacidad_confirmada", Valor: 120,
	})
	require.NoError(t, err)
	require.Equal(t, e.Version+2, second.Version)
	require.Equal(t, "Av. Reforma 100", second.Checklist()["lugar"].Campos["direccion"])
}

func TestConvertRequiresApprovedPreRegistration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := &preregistration.PreRegistration{
		ID:              "prereg-1",
		NombreCompleto:  "Ana López",
		Email:           "ana@example.com",
		TipoEvento:      "boda",
		FechaEstimada:   time.Now().AddDate(0, 2, 0),
		NumeroInvitados: 120,
		Ubicacion:       "Jardín Los Pinos",
		Estado:          preregistration.StatusPendiente,
	}
	require.NoError(t, svc.db.Create(p).Error)

	_, err := svc.CreateFromPreRegistration(ctx, p.ID, "admin")
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusUnprocessableEntity, be.Code)

	require.NoError(t, svc.db.Model(p).Update("estado", preregistration.StatusAprobado).Error)

	e, err := svc.CreateFromPreRegistration(ctx, p.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, &p.ID, e.PreRegistrationID)
	require.Equal(t, 120, e.GuestCount)
	require.Equal(t, p.FechaEstimada.Unix(), e.StartsAt.Unix())
}

func TestAssignWorkerRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)
	ctx := context.Background()

	_, err := svc.AssignWorker(ctx, e.ID, &AssignRequest{WorkerID: "worker-1", Role: "mesero"})
	require.NoError(t, err)

	_, err = svc.AssignWorker(ctx, e.ID, &AssignRequest{WorkerID: "worker-1", Role: "chef"})
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusConflict, be.Code)
}

func TestUpdateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)

	// Event runs day 30 to day 31; pulling ends_at before the stored start
	// must be rejected even though the field is valid on its own.
	early := futureDate(29)
	_, err := svc.Update(context.Background(), e.ID, &UpdateRequest{EndsAt: &early})
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusValidationFailed, be.Code)

	stored, err := svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	require.True(t, stored.EndsAt.After(stored.StartsAt))
}

func TestUpdateMovesWholeWindow(t *testing.T) {
	svc := newTestService(t)
	e := createEvent(t, svc)

	starts, ends := futureDate(40), futureDate(42)
	updated, err := svc.Update(context.Background(), e.ID, &UpdateRequest{
		StartsAt: &starts,
		EndsAt:   &ends,
	})
	require.NoError(t, err)
	require.True(t, updated.EndsAt.After(updated.StartsAt))
	require.Equal(t, starts, updated.StartsAt.Format("2006-01-02"))
}
