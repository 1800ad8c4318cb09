package document

import (
	"log/slog"
	"os"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestLoader_LoadSpreadsheet(t *testing.T) {
	t.Run("xlsx grid", func(t *testing.T) {
		data := buildWorkbook(t, [][]any{
			{"Fecha de cierre", "Fecha de vencimiento"},
			{"22/01/2026", "04/02/2026"},
			{"Fecha", "Descripción", "Cuotas", "Monto en pesos", "Monto en dólares"},
			{"05/03/2025", "SUPERMERCADO", "2 de 4", "$10.000,00", ""},
		})

		doc, err := testLoader().Load(data, KindSpreadsheet, "")
		require.NoError(t, err)
		require.Equal(t, KindSpreadsheet, doc.Kind)

		grid := doc.Grid()
		require.NotNil(t, grid)
		require.GreaterOrEqual(t, len(grid), 4)
		assert.Equal(t, "Fecha de cierre", grid[0][0])
		assert.Equal(t, "SUPERMERCADO", grid[3][1])
	})

	t.Run("csv comma grid", func(t *testing.T) {
		data := []byte("Fecha,Descripción,Monto en pesos\n05/03/2025,SUPERMERCADO,\"$10.000,00\"\n")

		doc, err := testLoader().Load(data, KindSpreadsheet, "")
		require.NoError(t, err)

		grid := doc.Grid()
		require.Len(t, grid, 2)
		assert.Equal(t, []string{"Fecha", "Descripción", "Monto en pesos"}, []string(grid[0]))
		assert.Equal(t, "$10.000,00", grid[1][2])
	})

	t.Run("csv semicolon grid", func(t *testing.T) {
		data := []byte("Fecha;Descripción;Monto en pesos\n05/03/2025;SUPERMERCADO;$10.000,00\n")

		doc, err := testLoader().Load(data, KindSpreadsheet, "")
		require.NoError(t, err)

		grid := doc.Grid()
		require.Len(t, grid, 2)
		assert.Equal(t, "$10.000,00", grid[1][2])
	})

	t.Run("garbage workbook", func(t *testing.T) {
		_, err := testLoader().Load([]byte("PK\x03\x04 not really a workbook"), KindSpreadsheet, "")
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})
}

func TestLoader_LoadPageDocument(t *testing.T) {
	t.Run("garbage bytes", func(t *testing.T) {
		_, err := testLoader().Load([]byte("definitely not a pdf"), KindPageDocument, "")
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := testLoader().Load(nil, Kind("carta"), "")
		assert.ErrorIs(t, err, ErrDocumentUnreadable)
	})
}

func TestPasswordRequired(t *testing.T) {
	// A trailer without an Encrypt entry never demands a password.
	var unencrypted pdf.Value
	assert.False(t, passwordRequired(unencrypted, ""))
	assert.False(t, passwordRequired(unencrypted, "secreto"))
}

func TestDocument_Text(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Lines: []string{"uno", "dos"}},
		{Lines: []string{"tres"}},
	}}
	assert.Equal(t, "uno\ndos\ntres\n", doc.Text())
}
