package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
)

type widget struct {
	ID    string `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name"`
	Group string `gorm:"column:grp"`
}

func newStore(t *testing.T) Repository[widget] {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return ProvideStore[widget](db)
}

func TestCreateAndFindOne(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &widget{ID: "w1", Name: "alpha"}))

	got, err := store.FindOne(ctx, &widget{ID: "w1"})
	require.NoError(t, err)
	require.Equal(t, "alpha", got.Name)
}

func TestFindOneMissingIsTypedNotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.FindOne(context.Background(), &widget{ID: "missing"})
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
}

func TestUpdateMissingIsTypedNotFound(t *testing.T) {
	store := newStore(t)

	err := store.Update(context.Background(), "missing", map[string]any{"name": "beta"})
	require.Error(t, err)

	be, ok := errutil.From(err)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
}

func TestFindAppliesOptions(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Create(ctx, &widget{
			ID:    fmt.Sprintf("w%02d", i),
			Name:  fmt.Sprintf("widget %02d", i),
			Group: "a",
		}))
	}
	require.NoError(t, store.Create(ctx, &widget{ID: "other", Name: "other", Group: "b"}))

	total, err := store.Count(ctx, &widget{Group: "a"})
	require.NoError(t, err)
	require.Equal(t, int64(15), total)

	rows, err := store.Find(ctx, &widget{Group: "a"},
		option.OrderBy("id ASC"),
		option.ApplyPagination(pagination.Pagination{Page: 2, Limit: 10}),
	)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, "w10", rows[0].ID)
}

func TestDeleteRemovesRow(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &widget{ID: "w1", Name: "alpha"}))
	require.NoError(t, store.Delete(ctx, "w1"))

	_, err := store.FindOne(ctx, &widget{ID: "w1"})
	require.Error(t, err)

	err = store.Delete(ctx, "w1")
	require.Error(t, err)
}

func TestWithTrxSharesTransaction(t *testing.T) {
	repo := newStore(t)
	ctx := context.Background()

	base := repo.(*store[widget])
	err := base.db.Transaction(func(tx *gorm.DB) error {
		scoped := repo.WithTrx(tx)
		if err := scoped.Create(ctx, &widget{ID: "w1", Name: "alpha"}); err != nil {
			return err
		}
		return fmt.Errorf("forced rollback")
	})
	require.Error(t, err)

	_, err = repo.FindOne(ctx, &widget{ID: "w1"})
	require.Error(t, err)
}
