package employer

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Employer{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node})
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, &CreateRequest{
		Empresa:  "Grupo Hotelero Azteca",
		Contacto: "María Torres",
		Email:    "maria@azteca.example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)

	stored, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "Grupo Hotelero Azteca", stored.Empresa)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
}

func TestUpdateRequiresFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, &CreateRequest{Empresa: "Azteca", Email: "maria@azteca.example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, e.ID, &UpdateRequest{})
	require.Error(t, err)

	rating := 4.5
	updated, err := svc.Update(ctx, e.ID, &UpdateRequest{Rating: &rating})
	require.NoError(t, err)
	require.Equal(t, 4.5, updated.Rating)
}

func TestListPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, &CreateRequest{
			Empresa: fmt.Sprintf("Empresa %02d", i),
			Email:   fmt.Sprintf("contacto%d@example.com", i),
		})
		require.NoError(t, err)
	}

	rows, info, err := svc.List(ctx, ListQuery{Pagination: pagination.Pagination{Page: 2, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, int64(15), info.Total)
	require.Equal(t, 2, info.Pages)
}
