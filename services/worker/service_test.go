package worker

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/pkg/config"
	"banquet-backoffice/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Worker{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node, Config: config.NewTest()})
}

func TestLevelForThresholds(t *testing.T) {
	cfg := config.NewTest().Loyalty

	cases := []struct {
		points int64
		want   LoyaltyLevel
	}{
		{0, LevelBronze},
		{99, LevelBronze},
		{100, LevelSilver},
		{499, LevelSilver},
		{500, LevelGold},
		{999, LevelGold},
		{1000, LevelPlatinum},
		{50000, LevelPlatinum},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, LevelFor(tc.points, cfg), "points=%d", tc.points)
	}
}

func TestCreateStartsAtBronze(t *testing.T) {
	svc := newTestService(t)

	w, err := svc.Create(context.Background(), &CreateRequest{
		Nombre:          "Carlos Méndez",
		Email:           "carlos@example.com",
		Especializacion: "chef",
		TarifaHora:      350,
	})
	require.NoError(t, err)
	require.Equal(t, LevelBronze, w.LoyaltyLevel)
	require.Zero(t, w.LoyaltyPoints)
}

func TestAddPointsPromotes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, &CreateRequest{Nombre: "Carlos Méndez", Email: "carlos@example.com"})
	require.NoError(t, err)

	updated, err := svc.AddPoints(ctx, w.ID, &PointsRequest{Delta: 120, Reason: "evento completado"})
	require.NoError(t, err)
	require.Equal(t, int64(120), updated.LoyaltyPoints)
	require.Equal(t, LevelSilver, updated.LoyaltyLevel)

	updated, err = svc.AddPoints(ctx, w.ID, &PointsRequest{Delta: 900})
	require.NoError(t, err)
	require.Equal(t, int64(1020), updated.LoyaltyPoints)
	require.Equal(t, LevelPlatinum, updated.LoyaltyLevel)
}

func TestAddPointsClampsAtZeroAndDemotes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, &CreateRequest{Nombre: "Carlos Méndez", Email: "carlos@example.com"})
	require.NoError(t, err)

	_, err = svc.AddPoints(ctx, w.ID, &PointsRequest{Delta: 150})
	require.NoError(t, err)

	updated, err := svc.AddPoints(ctx, w.ID, &PointsRequest{Delta: -500, Reason: "penalización"})
	require.NoError(t, err)
	require.Equal(t, int64(0), updated.LoyaltyPoints)
	require.Equal(t, LevelBronze, updated.LoyaltyLevel)
}

func TestListFiltersByLevel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	w1, err := svc.Create(ctx, &CreateRequest{Nombre: "Carlos Méndez", Email: "carlos@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateRequest{Nombre: "Lucía Ramos", Email: "lucia@example.com"})
	require.NoError(t, err)

	_, err = svc.AddPoints(ctx, w1.ID, &PointsRequest{Delta: 600})
	require.NoError(t, err)

	rows, _, err := svc.List(ctx, ListQuery{Level: "gold"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, w1.ID, rows[0].ID)
}
