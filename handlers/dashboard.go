package handlers

import (
	"net/http"
	"time"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/models"
	"p9e.in/combustibles/pkg/stats"
)

// parseWindow reads the fecha/hora query parameters. Dates are
// YYYY-MM-DD, optional times HH:MM; a date without a time spans the whole
// day. With no bounds at all the window defaults to the last seven days.
func parseWindow(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()

	startStr, endStr := q.Get("fecha_inicio"), q.Get("fecha_fin")
	if startStr != "" {
		t, perr := time.Parse("2006-01-02", startStr)
		if perr != nil {
			return nil, nil, perr
		}
		if h := q.Get("hora_inicio"); h != "" {
			hh, perr := time.Parse("15:04", h)
			if perr != nil {
				return nil, nil, perr
			}
			t = t.Add(time.Duration(hh.Hour())*time.Hour + time.Duration(hh.Minute())*time.Minute)
		}
		start = &t
	}
	if endStr != "" {
		t, perr := time.Parse("2006-01-02", endStr)
		if perr != nil {
			return nil, nil, perr
		}
		if h := q.Get("hora_fin"); h != "" {
			hh, perr := time.Parse("15:04", h)
			if perr != nil {
				return nil, nil, perr
			}
			t = t.Add(time.Duration(hh.Hour())*time.Hour + time.Duration(hh.Minute())*time.Minute)
		} else {
			t = t.Add(24*time.Hour - time.Second)
		}
		end = &t
	}

	if start == nil && end == nil {
		now := time.Now().UTC()
		weekAgo := now.AddDate(0, 0, -7)
		start, end = &weekAgo, &now
	}
	return start, end, nil
}

// GetDashboard computes the admin dashboard for the requested window:
// the latest reading per station plus the aggregate statistics over that
// reduced set.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "rango de fechas inválido")
		return
	}

	store := models.NewFuelStore(config.DB)
	rows, err := store.QueryWindow(start, end)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al cargar datos")
		return
	}

	latest := stats.Ordered(stats.ResolveLatest(rows, ""))
	snapshots := make([]models.Snapshot, len(latest))
	for i := range latest {
		snapshots[i] = latest[i].ToSnapshot()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  snapshots,
		"stats": stats.Compute(latest, start, end),
	})
}
