package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Pagination{}.Normalize()
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}

func TestNormalizeCapsLimit(t *testing.T) {
	p := Pagination{Page: 3, Limit: 5000}.Normalize()
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 3, p.Page)
}

func TestOffset(t *testing.T) {
	require.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	require.Equal(t, 10, Pagination{Page: 2, Limit: 10}.Offset())
	require.Equal(t, 50, Pagination{Page: 6, Limit: 10}.Offset())
}

func TestBuildPageInfoRoundsUp(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 2, Limit: 10}, 15)
	require.Equal(t, 2, info.Page)
	require.Equal(t, 10, info.Limit)
	require.Equal(t, int64(15), info.Total)
	require.Equal(t, 2, info.Pages)
}

func TestBuildPageInfoNeverBelowOnePage(t *testing.T) {
	info := BuildPageInfo(Pagination{}, 0)
	require.Equal(t, 1, info.Pages)
	require.Equal(t, int64(0), info.Total)
}

func TestBuildPageInfoExactMultiple(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 1, Limit: 10}, 30)
	require.Equal(t, 3, info.Pages)
}
