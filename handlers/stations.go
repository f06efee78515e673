package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/middleware"
	"p9e.in/combustibles/models"
	"p9e.in/combustibles/pkg/stats"
)

type stationUpdateReq struct {
	StationCode   string           `json:"codigo"`
	BusinessName  string           `json:"razonSocial"`
	Zone          string           `json:"zona"`
	Province      string           `json:"provincia"`
	Municipality  string           `json:"municipio"`
	DoDoPlus      int              `json:"doDoPlus"`
	DoUlsPlus     int              `json:"doUlsPlus"`
	GeGePlus      int              `json:"geGePlus"`
	GpPlus        int              `json:"gpPlus"`
	GpUltra       int              `json:"gpUltra100"`
	QueueDiesel   int              `json:"filasDoDoPlus"`
	QueueGasoline int              `json:"filasGeGePlus"`
	ReportedAt    *models.JSONTime `json:"fechaHora,omitempty"`
}

// UpdateStation appends a new reading for a station. History is never
// edited: every submission is a fresh row and the dashboards pick the
// latest one per station at read time. Descriptive fields left blank are
// carried forward from the caller's previous reading for that station.
func UpdateStation(w http.ResponseWriter, r *http.Request) {
	var req stationUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.StationCode == "" {
		fail(w, http.StatusBadRequest, "código de estación requerido")
		return
	}

	funcionario := middleware.GetFuncionario(r)
	store := models.NewFuelStore(config.DB)

	previous, err := store.LatestFor(req.StationCode, funcionario)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}

	reading := models.FuelReading{
		StationCode:   req.StationCode,
		BusinessName:  req.BusinessName,
		Zone:          req.Zone,
		Province:      req.Province,
		Municipality:  req.Municipality,
		DoDoPlus:      req.DoDoPlus,
		DoUlsPlus:     req.DoUlsPlus,
		GeGePlus:      req.GeGePlus,
		GpPlus:        req.GpPlus,
		GpUltra:       req.GpUltra,
		QueueDiesel:   req.QueueDiesel,
		QueueGasoline: req.QueueGasoline,
		Funcionario:   funcionario,
		UpdatedBy:     middleware.GetUsername(r),
		RecordType:    models.RecordTypeUpdate,
		ReportedAt:    models.JSONTime(time.Now().UTC()),
	}
	if req.ReportedAt != nil && !time.Time(*req.ReportedAt).IsZero() {
		reading.ReportedAt = *req.ReportedAt
	}
	if previous != nil {
		if reading.BusinessName == "" {
			reading.BusinessName = previous.BusinessName
		}
		if reading.Zone == "" {
			reading.Zone = previous.Zone
		}
		if reading.Province == "" {
			reading.Province = previous.Province
		}
		if reading.Municipality == "" {
			reading.Municipality = previous.Municipality
		}
	}

	if err := store.Append(&reading); err != nil {
		if errors.Is(err, models.ErrValidation) {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		fail(w, http.StatusInternalServerError, "error interno del servidor")
		return
	}

	ok(w, "datos guardados correctamente", reading.ToSnapshot())
}

// GetMyStations lists the caller's latest reading per station, unbounded
// window: field staff see the last value they reported for each station
// they cover.
func GetMyStations(w http.ResponseWriter, r *http.Request) {
	funcionario := middleware.GetFuncionario(r)
	store := models.NewFuelStore(config.DB)

	rows, err := store.QueryWindow(nil, nil)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al cargar datos")
		return
	}

	latest := stats.Ordered(stats.ResolveLatest(rows, funcionario))
	snapshots := make([]models.Snapshot, len(latest))
	for i := range latest {
		snapshots[i] = latest[i].ToSnapshot()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"funcionario": funcionario,
		"data":        snapshots,
	})
}
