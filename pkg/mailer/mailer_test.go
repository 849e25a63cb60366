package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banquet-backoffice/pkg/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestSubstituteReplacesPlaceholders(t *testing.T) {
	out := substitute("Hola {{nombre}}, tu evento {{tipo_evento}} fue recibido.", map[string]string{
		"nombre":      "Ana",
		"tipo_evento": "boda",
	})
	require.Equal(t, "Hola Ana, tu evento boda fue recibido.", out)
}

func TestSubstituteLeavesUnknownPlaceholders(t *testing.T) {
	out := substitute("Hola {{nombre}}, saldo: {{saldo}}", map[string]string{"nombre": "Ana"})
	require.Equal(t, "Hola Ana, saldo: {{saldo}}", out)
}

func TestSubstituteNoVars(t *testing.T) {
	require.Equal(t, "sin cambios", substitute("sin cambios", nil))
}

func TestUnconfiguredMailerRefusesToSend(t *testing.T) {
	m := New(config.NewTest())
	require.False(t, m.Configured())

	err := m.Send("ana@example.com", "preregistration_received", nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestTemplatesExistForEveryNotificationKind(t *testing.T) {
	templates := defaultTemplates()
	for _, name := range []string{
		"preregistration_received",
		"preregistration_approved",
		"preregistration_rejected",
		"quote_sent",
		"generic",
	} {
		tpl, ok := templates[name]
		require.True(t, ok, "missing template %s", name)
		require.NotEmpty(t, tpl.Subject)
		require.NotEmpty(t, tpl.Text)
	}
}
