package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talleres-api/pkg/qrcode"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"DNI", "Nombre Completo", "Taller"},
		Rows: []map[string]string{
			{"DNI": "12345678", "Nombre Completo": "GARCÍA PÉREZ LÓPEZ", "Taller": "PISCINA"},
			{"DNI": "87654321", "Nombre Completo": "ANA RÍOS", "Taller": "FÚTBOL"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "DNI,Nombre Completo,Taller", lines[0])
	assert.Equal(t, "12345678,GARCÍA PÉREZ LÓPEZ,PISCINA", lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Bandeja de Matrículas")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFExporterRenderConfirmation(t *testing.T) {
	png, err := qrcode.EncodePNG("12345678-TALLER", 256)
	require.NoError(t, err)

	out, err := NewPDFExporter().RenderConfirmation(Confirmation{
		Institution: "I.E. Nuestra Institución",
		Title:       "Constancia de Matrícula",
		QRCode:      png,
		Fields:      []Field{{Label: "DNI", Value: "12345678"}, {Label: "Horario", Value: "L-M-M - Turno 1"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestPDFExporterRenderConfirmationRequiresQR(t *testing.T) {
	_, err := NewPDFExporter().RenderConfirmation(Confirmation{Title: "x"})
	require.Error(t, err)
}

func TestCSVExporterWithBOMAndSemicolon(t *testing.T) {
	out, err := (&CSVExporter{BOM: true, Comma: ';'}).Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, out[:3])
	assert.True(t, strings.HasPrefix(string(out[3:]), "DNI;Nombre Completo;Taller\n"))
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"DNI", "Nombre Completo"},
		Rows: []map[string]string{
			{"DNI": "12345678", "Nombre Completo": "=HYPERLINK(\"http://x\")"},
			{"DNI": "87654321", "Nombre Completo": "@SUM(A1)"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `12345678,"'=HYPERLINK(""http://x"")"`, lines[1])
	assert.Equal(t, "87654321,'@SUM(A1)", lines[2])
}
