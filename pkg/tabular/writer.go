package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/combustibles/models"
)

// ExportHeader is the published export column order. Exports round-trip
// through the importer: every RequiredColumns name appears here verbatim,
// alongside the derived columns and the optional update timestamp.
var ExportHeader = []string{
	"CODIGO", "RAZON SOCIAL ANH", "ZONA", "PROVINCIA", "MUNICIPIO",
	"DO/DO+ (LTS)", "DO ULS+ (LTS)", "GE/GE+ (LTS)", "GP+ (LTS)",
	"GPULTRA100 (LTS)", "VOLUMEN TOTAL", "ESTADO", "FUNCIONARIO",
	"FILAS DO/DO+", "FILAS GE/GE+", "FECHA Y HORA DE ACTUALIZACION",
	"USUARIO_ACTUALIZACION",
}

func exportRow(r *models.FuelReading) []string {
	return []string{
		r.StationCode,
		r.BusinessName,
		r.Zone,
		r.Province,
		r.Municipality,
		strconv.Itoa(r.DoDoPlus),
		strconv.Itoa(r.DoUlsPlus),
		strconv.Itoa(r.GeGePlus),
		strconv.Itoa(r.GpPlus),
		strconv.Itoa(r.GpUltra),
		strconv.Itoa(r.TotalVolume()),
		r.Tier(),
		r.Funcionario,
		strconv.Itoa(r.QueueDiesel),
		strconv.Itoa(r.QueueGasoline),
		time.Time(r.ReportedAt).Format("2006-01-02 15:04:05"),
		r.UpdatedBy,
	}
}

// WriteCSV serializes readings one row each, in the published column
// order. No filtering happens here; callers resolve snapshots first.
func WriteCSV(w io.Writer, rows []models.FuelReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("tabular: write csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(exportRow(&rows[i])); err != nil {
			return fmt.Errorf("tabular: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX builds an Excel workbook with the same rows as the CSV
// export, with a bold filled header the way office staff expect.
func WriteXLSX(rows []models.FuelReading) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Combustibles"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Generado: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	for col, header := range ExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i := range rows {
		for col, value := range exportRow(&rows[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+4)
			f.SetCellValue(sheet, cell, value)
		}
	}
	return f, nil
}
