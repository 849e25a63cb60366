package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Nombre string `json:"nombre_completo" validate:"required,min=3"`
	Email  string `json:"email" validate:"required,email"`
	Fecha  string `json:"fecha_estimada" validate:"required,future"`
	Guests int    `json:"numero_invitados" validate:"required,gte=1"`
	Estado string `json:"estado" validate:"omitempty,oneof=pendiente aprobado"`
}

func valid() sampleRequest {
	return sampleRequest{
		Nombre: "Ana López",
		Email:  "ana@example.com",
		Fecha:  time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
		Guests: 120,
	}
}

func TestStructPassesValidInput(t *testing.T) {
	require.Empty(t, Struct(valid()))
}

func TestStructCollectsAllViolations(t *testing.T) {
	details := Struct(sampleRequest{Estado: "cancelado"})
	require.Len(t, details, 5)

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	require.Contains(t, fields, "nombre_completo")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "fecha_estimada")
	require.Contains(t, fields, "numero_invitados")
	require.Equal(t, "must be one of: pendiente, aprobado", fields["estado"])
}

func TestStructReportsWireNames(t *testing.T) {
	req := valid()
	req.Nombre = "An"

	details := Struct(req)
	require.Len(t, details, 1)
	require.Equal(t, "nombre_completo", details[0].Field)
	require.Equal(t, "must be at least 3 characters", details[0].Message)
}

func TestFutureRejectsPastDates(t *testing.T) {
	req := valid()
	req.Fecha = "2020-01-15"

	details := Struct(req)
	require.Len(t, details, 1)
	require.Equal(t, "fecha_estimada", details[0].Field)
	require.Equal(t, "must be a date in the future", details[0].Message)
}

func TestFutureRejectsMalformedDates(t *testing.T) {
	req := valid()
	req.Fecha = "15/06/2027"

	details := Struct(req)
	require.Len(t, details, 1)
	require.Equal(t, "fecha_estimada", details[0].Field)
}

func TestFutureAcceptsTimeValues(t *testing.T) {
	type withTime struct {
		StartsAt time.Time `json:"starts_at" validate:"future"`
	}

	require.Empty(t, Struct(withTime{StartsAt: time.Now().Add(time.Hour)}))
	require.Len(t, Struct(withTime{StartsAt: time.Now().Add(-time.Hour)}), 1)
}
