// Package stats reduces the append-only reading history to per-station
// snapshots and computes the dashboard aggregates over them. Everything in
// here is pure: no database access, no clocks, no side effects.
package stats

import (
	"math"
	"sort"
	"time"

	"p9e.in/combustibles/models"
)

const (
	topSize   = 15
	trendSize = 10
)

// ResolveLatest reduces a reading sequence to one entry per station code:
// the reading with the maximum timestamp. When funcionario is non-empty
// only that agent's readings are considered. Equal timestamps are broken
// by the larger row ID, i.e. the later insertion wins; the rule is
// deterministic regardless of input order.
func ResolveLatest(rows []models.FuelReading, funcionario string) map[string]models.FuelReading {
	latest := make(map[string]models.FuelReading)
	for _, row := range rows {
		if funcionario != "" && row.Funcionario != funcionario {
			continue
		}
		current, ok := latest[row.StationCode]
		if !ok || newer(row, current) {
			latest[row.StationCode] = row
		}
	}
	return latest
}

func newer(a, b models.FuelReading) bool {
	ta, tb := time.Time(a.ReportedAt), time.Time(b.ReportedAt)
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ID > b.ID
}

// Ordered flattens a resolved snapshot map back into insertion order
// (ascending row ID), the order ranking ties are resolved in.
func Ordered(latest map[string]models.FuelReading) []models.FuelReading {
	rows := make([]models.FuelReading, 0, len(latest))
	for _, row := range latest {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// RankedStation is one entry of a top-N listing.
type RankedStation struct {
	Name   string `json:"nombre"`
	Volume int    `json:"volumen"`
}

// TrendPoint is one sample of the chronological tail plotted on the
// dashboard: the ten newest snapshots, oldest first.
type TrendPoint struct {
	Label    string `json:"fechaHora"`
	Diesel   int    `json:"diesel"`
	Gasoline int    `json:"gasolina"`
}

// DateRange echoes the window the dashboard was computed for.
type DateRange struct {
	Start string `json:"inicio"`
	End   string `json:"fin"`
}

// Dashboard carries every aggregate the admin dashboard displays.
type Dashboard struct {
	TotalStations int     `json:"totalEstaciones"`
	TotalVolume   int     `json:"totalVolumen"`
	LowTierCount  int     `json:"estacionesBajo"`
	AvgQueueCity  float64 `json:"promedioFilasCiudad"`
	AvgQueueProv  float64 `json:"promedioFilasProvincia"`

	VolumeByProduct map[string]int `json:"volumenPorProducto"`
	VolumeByGroup   map[string]int `json:"volumenPorGrupo"`

	TopByProduct map[string][]RankedStation `json:"topEstaciones"`
	TopByGroup   map[string][]RankedStation `json:"topEstacionesGrupo"`

	RecentTrend []TrendPoint `json:"evolucionTemporal"`
	Range       DateRange    `json:"rangoFechas"`
}

// Compute builds the dashboard aggregates from resolved snapshots (one
// reading per station, ranking ties broken by slice order). An empty
// input yields zeroed counters and empty collections, never an error.
// Averages are rounded to one decimal here, at the boundary; every
// intermediate value stays unrounded.
func Compute(rows []models.FuelReading, start, end *time.Time) Dashboard {
	d := Dashboard{
		VolumeByProduct: map[string]int{
			"doDoPlus": 0, "doUlsPlus": 0, "geGePlus": 0, "gpPlus": 0, "gpUltra100": 0,
		},
		VolumeByGroup: map[string]int{"diesel": 0, "gasolina": 0},
		TopByProduct: map[string][]RankedStation{
			"doDoPlus": {}, "gpPlus": {}, "total": {},
		},
		TopByGroup:  map[string][]RankedStation{"diesel": {}, "gasolina": {}},
		RecentTrend: []TrendPoint{},
		Range:       formatRange(start, end),
	}
	if len(rows) == 0 {
		return d
	}

	d.TotalStations = len(rows)
	queueSum := 0
	byProvince := make(map[string][]int)
	for _, r := range rows {
		total := r.TotalVolume()
		d.TotalVolume += total
		if total < 3000 {
			d.LowTierCount++
		}
		queueSum += r.QueueTotal()
		byProvince[r.Province] = append(byProvince[r.Province], r.QueueTotal())

		d.VolumeByProduct["doDoPlus"] += r.DoDoPlus
		d.VolumeByProduct["doUlsPlus"] += r.DoUlsPlus
		d.VolumeByProduct["geGePlus"] += r.GeGePlus
		d.VolumeByProduct["gpPlus"] += r.GpPlus
		d.VolumeByProduct["gpUltra100"] += r.GpUltra
		d.VolumeByGroup["diesel"] += r.DieselVolume()
		d.VolumeByGroup["gasolina"] += r.GasolineVolume()
	}

	d.AvgQueueCity = round1(float64(queueSum) / float64(len(rows)))

	// Mean of per-province means: a province with one station weighs the
	// same as one with fifty.
	provinceMeanSum := 0.0
	for _, queues := range byProvince {
		sum := 0
		for _, q := range queues {
			sum += q
		}
		provinceMeanSum += float64(sum) / float64(len(queues))
	}
	d.AvgQueueProv = round1(provinceMeanSum / float64(len(byProvince)))

	d.TopByProduct["doDoPlus"] = topBy(rows, func(r *models.FuelReading) int { return r.DoDoPlus })
	d.TopByProduct["gpPlus"] = topBy(rows, func(r *models.FuelReading) int { return r.GpPlus })
	d.TopByProduct["total"] = topBy(rows, (*models.FuelReading).TotalVolume)
	d.TopByGroup["diesel"] = topBy(rows, (*models.FuelReading).DieselVolume)
	d.TopByGroup["gasolina"] = topBy(rows, (*models.FuelReading).GasolineVolume)

	d.RecentTrend = recentTrend(rows)
	return d
}

func topBy(rows []models.FuelReading, value func(*models.FuelReading) int) []RankedStation {
	sorted := make([]models.FuelReading, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return value(&sorted[i]) > value(&sorted[j])
	})
	if len(sorted) > topSize {
		sorted = sorted[:topSize]
	}
	out := make([]RankedStation, len(sorted))
	for i, r := range sorted {
		out[i] = RankedStation{Name: r.BusinessName, Volume: value(&r)}
	}
	return out
}

// recentTrend picks the ten newest snapshots, then re-orders that subset
// chronologically so it plots left to right. It is a tail, not the whole
// series.
func recentTrend(rows []models.FuelReading) []TrendPoint {
	sorted := make([]models.FuelReading, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return newer(sorted[i], sorted[j]) })
	if len(sorted) > trendSize {
		sorted = sorted[:trendSize]
	}
	out := make([]TrendPoint, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		out = append(out, TrendPoint{
			Label:    time.Time(r.ReportedAt).Format("01-02 15:04"),
			Diesel:   r.DieselVolume(),
			Gasoline: r.GasolineVolume(),
		})
	}
	return out
}

func formatRange(start, end *time.Time) DateRange {
	var r DateRange
	if start != nil {
		r.Start = start.Format("2006-01-02")
	}
	if end != nil {
		r.End = end.Format("2006-01-02")
	}
	return r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
