package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"iptv-manager/internal/domains/clientimport/pipeline"
)

const templateSheet = "Clientes"

// TemplateFileName is the download name of the import template.
const TemplateFileName = "modelo_importacao_clientes.xlsx"

var templateExample = []interface{}{
	"João Silva", "joao123", "senha123", "11999999999", "25/12/2025", "Servidor 1",
	"NextApp", "", "Mensal", "joao@email.com", 35, 1, "",
}

// TemplateWorkbook builds the XLSX template with the native header row and
// one example client.
func TemplateWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range pipeline.NativeHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(templateSheet, cell, header)
	}
	for col, value := range templateExample {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		f.SetCellValue(templateSheet, cell, value)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(pipeline.NativeHeaders), 1)
		f.SetCellStyle(templateSheet, "A1", last, headerStyle)
	}

	// vencimento is a text column so typed dates keep their DD/MM/YYYY shape
	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err == nil {
		f.SetColStyle(templateSheet, "E", textStyle)
	}

	return f, nil
}
