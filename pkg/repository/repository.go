package repository

import (
	"context"
	"errors"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/errutil"

	"gorm.io/gorm"
)

// Repository is the only layer that talks to the durable store. Store-level
// failures are surfaced as typed errors with the driver error attached, never
// swallowed. It provides no cross-call atomicity: callers needing multi-table
// writes run them inside one transaction via WithTrx.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id string, values any) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore returns a gorm-backed Repository for T.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	if tx == nil {
		return s
	}
	return &store[T]{db: tx}
}

func (s *store[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	var out []*T
	tx := option.Apply(s.db.WithContext(ctx).Where(query), opts...)
	if err := tx.Find(&out).Error; err != nil {
		return nil, errutil.Internal("store query failed", err)
	}
	return out, nil
}

func (s *store[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	var out T
	tx := option.Apply(s.db.WithContext(ctx).Where(query), opts...)
	if err := tx.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errutil.NotFound("record not found", err)
		}
		return nil, errutil.Internal("store query failed", err)
	}
	return &out, nil
}

func (s *store[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return errutil.Internal("store insert failed", err)
	}
	return nil
}

func (s *store[T]) Update(ctx context.Context, id string, values any) error {
	var model T
	res := s.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return errutil.Internal("store update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return errutil.NotFound("record not found", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *store[T]) Delete(ctx context.Context, id string) error {
	var model T
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return errutil.Internal("store delete failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return errutil.NotFound("record not found", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *store[T]) Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error) {
	var model T
	var total int64
	tx := option.Apply(s.db.WithContext(ctx).Model(&model).Where(query), opts...)
	if err := tx.Count(&total).Error; err != nil {
		return 0, errutil.Internal("store count failed", err)
	}
	return total, nil
}
