package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/combustibles/models"
)

// RequiredColumns are the thirteen logical columns an import file must
// carry, under the names the ANH master sheet publishes.
var RequiredColumns = []string{
	"CODIGO", "RAZON SOCIAL ANH", "ZONA", "PROVINCIA", "MUNICIPIO",
	"DO/DO+ (LTS)", "DO ULS+ (LTS)", "GE/GE+ (LTS)", "GP+ (LTS)",
	"GPULTRA100 (LTS)", "FUNCIONARIO", "FILAS DO/DO+", "FILAS GE/GE+",
}

// timestampLayouts are tried in order against the update-timestamp cell;
// the first that parses wins, otherwise the row falls back to "now".
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// FormatError reports the required logical columns no header matched.
// It is detected before any row is parsed, so a bad file never writes.
type FormatError struct {
	Missing []string
}

func (e *FormatError) Error() string {
	return "columnas faltantes o con nombres diferentes: " + strings.Join(e.Missing, ", ")
}

// Result carries the parsed readings plus the bookkeeping an import audit
// wants: how many data rows were scanned and why the rest were skipped.
type Result struct {
	Readings []models.FuelReading
	Scanned  int
	Skipped  map[string]int
}

// Reader parses import files. The zero value is not usable; NewReader
// wires the default substring matcher and the real clock.
type Reader struct {
	matcher HeaderMatcher
	now     func() time.Time
}

func NewReader() *Reader {
	return &Reader{matcher: SubstringMatcher{}, now: time.Now}
}

// WithMatcher substitutes the header-matching strategy.
func (r *Reader) WithMatcher(m HeaderMatcher) *Reader {
	r.matcher = m
	return r
}

// WithClock substitutes the fallback-timestamp clock, for tests.
func (r *Reader) WithClock(now func() time.Time) *Reader {
	r.now = now
	return r
}

// ReadCSV parses a comma-delimited file with a header row.
func (r *Reader) ReadCSV(src io.Reader) (*Result, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: read csv: %w", err)
	}
	return r.parse(records)
}

// ReadXLSX parses the first sheet of an Excel workbook through the same
// row pipeline as CSV.
func (r *Reader) ReadXLSX(src io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("tabular: open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("tabular: xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("tabular: read xlsx rows: %w", err)
	}
	return r.parse(records)
}

func (r *Reader) parse(records [][]string) (*Result, error) {
	if len(records) == 0 {
		return nil, &FormatError{Missing: RequiredColumns}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	// The update-timestamp column is optional: when no header carries the
	// FECHA+HORA+ACTUALIZACION tokens every row defaults to "now" instead
	// of failing the import.
	timestampCol := -1
	for i, h := range headers {
		if strings.Contains(h, "FECHA") && strings.Contains(h, "HORA") && strings.Contains(h, "ACTUALIZACION") {
			timestampCol = i
			break
		}
	}

	columns := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, req := range RequiredColumns {
		idx := r.matcher.Match(req, headers)
		if idx < 0 {
			// Older field sheets ship without a municipality column; it
			// degrades to an empty attribute instead of failing the file.
			if req == "MUNICIPIO" {
				columns[req] = -1
				continue
			}
			missing = append(missing, normalizeHeader(req))
			continue
		}
		columns[req] = idx
	}
	if len(missing) > 0 {
		return nil, &FormatError{Missing: missing}
	}

	res := &Result{Skipped: make(map[string]int)}
	for _, row := range records[1:] {
		if len(row) < len(headers)-1 {
			res.Skipped["fila_corta"]++
			continue
		}
		res.Scanned++

		reading, skipReason := r.parseRow(row, columns, timestampCol)
		if skipReason != "" {
			res.Skipped[skipReason]++
			continue
		}
		res.Readings = append(res.Readings, reading)
	}
	return res, nil
}

// parseRow turns one data row into a reading. A non-empty skip reason
// means the whole row is dropped; there are no partial inserts.
func (r *Reader) parseRow(row []string, columns map[string]int, timestampCol int) (models.FuelReading, string) {
	cell := func(name string) string {
		idx := columns[name]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	code := cell("CODIGO")
	funcionario := cell("FUNCIONARIO")
	if code == "" || funcionario == "" {
		return models.FuelReading{}, "sin_codigo_o_funcionario"
	}

	var badCell error
	liters := func(name string) int {
		v, err := parseLiters(cell(name))
		if err != nil && badCell == nil {
			badCell = err
		}
		return v
	}

	reportedAt := r.now().UTC()
	if timestampCol >= 0 && timestampCol < len(row) {
		if ts := strings.TrimSpace(row[timestampCol]); ts != "" {
			for _, layout := range timestampLayouts {
				if t, err := time.Parse(layout, ts); err == nil {
					reportedAt = t
					break
				}
			}
		}
	}

	reading := models.FuelReading{
		StationCode:   code,
		BusinessName:  cell("RAZON SOCIAL ANH"),
		Zone:          cell("ZONA"),
		Province:      cell("PROVINCIA"),
		Municipality:  cell("MUNICIPIO"),
		DoDoPlus:      liters("DO/DO+ (LTS)"),
		DoUlsPlus:     liters("DO ULS+ (LTS)"),
		GeGePlus:      liters("GE/GE+ (LTS)"),
		GpPlus:        liters("GP+ (LTS)"),
		GpUltra:       liters("GPULTRA100 (LTS)"),
		QueueDiesel:   liters("FILAS DO/DO+"),
		QueueGasoline: liters("FILAS GE/GE+"),
		Funcionario:   funcionario,
		ReportedAt:    models.JSONTime(reportedAt),
		RecordType:    models.RecordTypeInitial,
	}
	if badCell != nil {
		return models.FuelReading{}, "valor_numerico_invalido"
	}
	return reading, ""
}

// parseLiters reads a numeric cell the way the spreadsheets write them:
// possibly fractional, truncated to whole units, blank meaning zero. A
// non-blank cell that is not a number is an error; the caller skips the
// whole row rather than importing it with a silent zero.
func parseLiters(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("tabular: invalid numeric cell %q", s)
	}
	return int(v), nil
}
