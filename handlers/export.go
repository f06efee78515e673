package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/models"
	"p9e.in/combustibles/pkg/stats"
	"p9e.in/combustibles/pkg/tabular"
)

// resolveWindowSnapshots fetches the latest reading per station for the
// requested window, the same reduction the dashboard displays.
func resolveWindowSnapshots(r *http.Request) ([]models.FuelReading, error) {
	start, end, err := parseWindow(r)
	if err != nil {
		return nil, err
	}
	store := models.NewFuelStore(config.DB)
	rows, err := store.QueryWindow(start, end)
	if err != nil {
		return nil, err
	}
	return stats.Ordered(stats.ResolveLatest(rows, "")), nil
}

// ExportCSV streams the current window's snapshots as a downloadable CSV
// in the published column order.
func ExportCSV(w http.ResponseWriter, r *http.Request) {
	latest, err := resolveWindowSnapshots(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "error al exportar datos: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, latest); err != nil {
		fail(w, http.StatusInternalServerError, "error al generar CSV")
		return
	}

	filename := fmt.Sprintf("datos_combustibles_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportXLSX serves the same rows as an Excel workbook.
func ExportXLSX(w http.ResponseWriter, r *http.Request) {
	latest, err := resolveWindowSnapshots(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "error al exportar datos: "+err.Error())
		return
	}

	f, err := tabular.WriteXLSX(latest)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al generar Excel")
		return
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al generar Excel")
		return
	}

	filename := fmt.Sprintf("datos_combustibles_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
