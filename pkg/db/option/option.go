package option

import (
	"banquet-backoffice/pkg/db/pagination"

	"gorm.io/gorm"
)

// QueryOption narrows or shapes a repository query: filters, ordering,
// pagination, relation preloads.
type QueryOption func(*gorm.DB) *gorm.DB

func Where(query interface{}, args ...interface{}) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}

func OrderBy(expr string) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(expr)
	}
}

func Preload(relation string) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Preload(relation)
	}
}

func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(p.Scope())
	}
}

// Apply runs all options against tx in order.
func Apply(tx *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		tx = opt(tx)
	}
	return tx
}
