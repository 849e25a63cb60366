package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/pkg/errutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
}

type createBody struct {
	Nombre string `json:"nombre" validate:"required,min=3"`
	Email  string `json:"email" validate:"required,email"`
}

func perform(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.POST("/things", handler)

	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteCreatesOnSuccess(t *testing.T) {
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusCreated, func(ctx context.Context, req *createBody) (any, error) {
			return map[string]string{"id": "42", "nombre": req.Nombre}, nil
		})
	}

	rec := perform(t, handler, `{"nombre":"Ana López","email":"ana@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decode(t, rec)
	require.True(t, env.Success)
}

func TestWriteRejectsMalformedJSON(t *testing.T) {
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusCreated, func(ctx context.Context, req *createBody) (any, error) {
			t.Fatal("operation must not run")
			return nil, nil
		})
	}

	rec := perform(t, handler, `{"nombre":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
}

func TestWriteReportsAllValidationDetails(t *testing.T) {
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusCreated, func(ctx context.Context, req *createBody) (any, error) {
			t.Fatal("operation must not run")
			return nil, nil
		})
	}

	rec := perform(t, handler, `{"nombre":"An","email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Len(t, env.Details, 2)

	fields := []string{env.Details[0].Field, env.Details[1].Field}
	require.Contains(t, fields, "nombre")
	require.Contains(t, fields, "email")
}

func TestWriteMapsTypedErrors(t *testing.T) {
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusOK, func(ctx context.Context, req *createBody) (any, error) {
			return nil, errutil.NotFound("record not found", nil)
		})
	}

	rec := perform(t, handler, `{"nombre":"Ana López","email":"ana@example.com"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "record not found", env.Error)
}

func TestWriteHidesUntypedErrors(t *testing.T) {
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusOK, func(ctx context.Context, req *createBody) (any, error) {
			return nil, errors.New("pq: connection reset by peer")
		})
	}

	rec := perform(t, handler, `{"nombre":"Ana López","email":"ana@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decode(t, rec)
	require.Equal(t, "internal server error", env.Error)
	require.NotContains(t, rec.Body.String(), "pq:")
}

func TestWriteRunsHooksAfterSuccess(t *testing.T) {
	var hooked any
	handler := func(c *gin.Context) {
		Write[createBody](c, http.StatusCreated, func(ctx context.Context, req *createBody) (any, error) {
			return "result", nil
		}, func(ctx context.Context, result any) {
			hooked = result
		})
	}

	rec := perform(t, handler, `{"nombre":"Ana López","email":"ana@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "result", hooked)
}

func TestBindQueryValidates(t *testing.T) {
	type listQuery struct {
		Estado string `form:"estado" validate:"omitempty,oneof=pendiente aprobado"`
	}

	router := gin.New()
	router.GET("/things", func(c *gin.Context) {
		q, err := BindQuery[listQuery](c)
		if err != nil {
			Fail(c, err)
			return
		}
		OK(c, q)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things?estado=cancelado", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things?estado=aprobado", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
