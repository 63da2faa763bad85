package reader_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
	"iptv-manager/internal/domains/clientimport/reader"
)

func TestReadCSV_ForeignExportEndToEnd(t *testing.T) {
	input := "username,password,expiry_date,package,name,whatsapp\n" +
		"jdoe,pw123,2024-12-25 00:00:00,VIP,John Doe,11988887777\n"

	rows, err := reader.Read("export.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, pipeline.CheckRows(len(rows), pipeline.DefaultLimits))

	format := pipeline.DetectFormat(rows)
	require.Equal(t, model.FormatForeignExport, format)

	record := pipeline.Normalize(rows[0], 1, format)
	assert.Equal(t, "NextApp", record.Application)
	assert.Equal(t, "2024-12-25", record.RenewalDate)
	assert.Equal(t, "", record.MAC)
	assert.Equal(t, "John Doe", record.Name)

	pipeline.Revalidate(&record, []catalogModel.Server{{Name: "Servidor1"}})
	assert.False(t, record.Valid)
	assert.Contains(t, record.Errors, pipeline.MsgServerRequired)
}

func TestReadCSV_SemicolonAndBOM(t *testing.T) {
	input := "\ufeffnome;usuario_iptv;telas\nAna;ana1;2\n;;\nBia;bia1\n"

	rows, err := reader.ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, model.RawRow{"nome": "Ana", "usuario_iptv": "ana1", "telas": "2"}, rows[0])
	assert.Equal(t, model.RawRow{"nome": "Bia", "usuario_iptv": "bia1", "telas": ""}, rows[1])
}

func TestReadCSV_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Nome,Usuário IPTV\nJoão,joao\n")
	require.NoError(t, err)

	rows, err := reader.ReadCSV(strings.NewReader(encoded))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "João", rows[0]["Nome"])
	assert.Equal(t, "joao", rows[0]["Usuário IPTV"])
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	rows, err := reader.ReadCSV(strings.NewReader("nome,usuario_iptv\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, errors.Is(pipeline.CheckRows(len(rows), pipeline.DefaultLimits), model.ErrEmptySheet))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Nome", "Vencimento", "Telas"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Carlos", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), 2}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Dora", "01/02/2025"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := reader.Read("clientes.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := pipeline.Normalize(rows[0], 1, pipeline.DetectFormat(rows))
	assert.Equal(t, "Carlos", first.Name)
	assert.Equal(t, "2024-12-25", first.RenewalDate)
	assert.Equal(t, 2, first.Screens)

	second := pipeline.Normalize(rows[1], 2, model.FormatNative)
	assert.Equal(t, "2025-02-01", second.RenewalDate)
	assert.Equal(t, "", rows[1]["Telas"])
}

func TestReadXLSX_Corrupt(t *testing.T) {
	_, err := reader.Read("clientes.xlsx", strings.NewReader("not a zip"))
	assert.True(t, errors.Is(err, model.ErrUnreadableFile))
}

func TestRead_RejectsExtension(t *testing.T) {
	_, err := reader.Read("clientes.ods", strings.NewReader(""))
	assert.True(t, errors.Is(err, model.ErrInvalidExtension))
}

func TestTemplateWorkbook_RoundTrip(t *testing.T) {
	f, err := reader.TemplateWorkbook()
	require.NoError(t, err)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := reader.ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	format := pipeline.DetectFormat(rows)
	assert.Equal(t, model.FormatNative, format)

	record := pipeline.Normalize(rows[0], 1, format)
	pipeline.Revalidate(&record, []catalogModel.Server{{Name: "Servidor 1"}})
	assert.True(t, record.Valid, "errors: %v", record.Errors)
	assert.Equal(t, "2025-12-25", record.RenewalDate)
}
