package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/combustibles/models"
)

func at(day, hour int) models.JSONTime {
	return models.JSONTime(time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC))
}

func TestResolveLatest_OnePerStationMaxTimestamp(t *testing.T) {
	rows := []models.FuelReading{
		{ID: 1, StationCode: "E1", Funcionario: "Juan Perez", DoDoPlus: 100, ReportedAt: at(1, 10)},
		{ID: 2, StationCode: "E1", Funcionario: "Juan Perez", DoDoPlus: 50, ReportedAt: at(2, 9)},
		{ID: 3, StationCode: "E2", Funcionario: "Maria Lopez", DoDoPlus: 70, ReportedAt: at(1, 12)},
	}

	latest := ResolveLatest(rows, "")
	require.Len(t, latest, 2)
	assert.Equal(t, 50, latest["E1"].DoDoPlus)
	assert.Equal(t, 70, latest["E2"].DoDoPlus)

	// Input order must not matter.
	reversed := []models.FuelReading{rows[2], rows[1], rows[0]}
	assert.Equal(t, latest, ResolveLatest(reversed, ""))
}

func TestResolveLatest_EqualTimestampsLaterInsertionWins(t *testing.T) {
	rows := []models.FuelReading{
		{ID: 7, StationCode: "E1", Funcionario: "Juan Perez", DoDoPlus: 1, ReportedAt: at(1, 10)},
		{ID: 9, StationCode: "E1", Funcionario: "Juan Perez", DoDoPlus: 2, ReportedAt: at(1, 10)},
	}

	latest := ResolveLatest(rows, "")
	assert.Equal(t, uint(9), latest["E1"].ID)

	latest = ResolveLatest([]models.FuelReading{rows[1], rows[0]}, "")
	assert.Equal(t, uint(9), latest["E1"].ID)
}

func TestResolveLatest_FiltersByFuncionario(t *testing.T) {
	rows := []models.FuelReading{
		{ID: 1, StationCode: "E1", Funcionario: "Juan Perez", ReportedAt: at(1, 10)},
		{ID: 2, StationCode: "E1", Funcionario: "Maria Lopez", ReportedAt: at(2, 10)},
		{ID: 3, StationCode: "E2", Funcionario: "Maria Lopez", ReportedAt: at(2, 11)},
	}

	latest := ResolveLatest(rows, "Juan Perez")
	require.Len(t, latest, 1)
	assert.Equal(t, uint(1), latest["E1"].ID)
}

func TestOrdered_AscendingByID(t *testing.T) {
	latest := map[string]models.FuelReading{
		"E3": {ID: 30, StationCode: "E3"},
		"E1": {ID: 10, StationCode: "E1"},
		"E2": {ID: 20, StationCode: "E2"},
	}

	rows := Ordered(latest)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"E1", "E2", "E3"}, []string{rows[0].StationCode, rows[1].StationCode, rows[2].StationCode})
}

func TestCompute_EmptyInput(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)

	d := Compute(nil, &start, &end)

	assert.Zero(t, d.TotalStations)
	assert.Zero(t, d.TotalVolume)
	assert.Zero(t, d.LowTierCount)
	assert.Zero(t, d.AvgQueueCity)
	assert.Zero(t, d.AvgQueueProv)
	assert.Equal(t, map[string]int{"diesel": 0, "gasolina": 0}, d.VolumeByGroup)
	assert.Empty(t, d.TopByProduct["total"])
	assert.Empty(t, d.RecentTrend)
	assert.Equal(t, "2024-03-01", d.Range.Start)
	assert.Equal(t, "2024-03-07", d.Range.End)
}

func TestCompute_Totals(t *testing.T) {
	rows := []models.FuelReading{
		{
			ID: 1, StationCode: "E1", BusinessName: "Estacion Norte", Province: "Murillo",
			DoDoPlus: 2000, DoUlsPlus: 500, GeGePlus: 1000, GpPlus: 300, GpUltra: 200,
			QueueDiesel: 4, QueueGasoline: 6, ReportedAt: at(1, 10),
		},
		{
			ID: 2, StationCode: "E2", BusinessName: "Estacion Sur", Province: "Murillo",
			DoDoPlus: 1000, QueueDiesel: 2, ReportedAt: at(1, 11),
		},
	}

	d := Compute(rows, nil, nil)

	assert.Equal(t, 2, d.TotalStations)
	assert.Equal(t, 5000, d.TotalVolume)
	assert.Equal(t, 1, d.LowTierCount) // E2 sits below 3000
	assert.Equal(t, 3500, d.VolumeByGroup["diesel"])
	assert.Equal(t, 1500, d.VolumeByGroup["gasolina"])
	assert.Equal(t, 3000, d.VolumeByProduct["doDoPlus"])
	assert.Equal(t, 200, d.VolumeByProduct["gpUltra100"])
	assert.Equal(t, 6.0, d.AvgQueueCity) // (10 + 2) / 2
}

func TestCompute_ProvinceAverageIsMeanOfMeans(t *testing.T) {
	// Murillo has stations with queues 10 and 20 (mean 15); Potosi has a
	// single station with queue 100. The province average weighs each
	// province equally: (15 + 100) / 2 = 57.5.
	rows := []models.FuelReading{
		{ID: 1, StationCode: "E1", Province: "Murillo", QueueDiesel: 10, ReportedAt: at(1, 10)},
		{ID: 2, StationCode: "E2", Province: "Murillo", QueueDiesel: 20, ReportedAt: at(1, 10)},
		{ID: 3, StationCode: "E3", Province: "Potosi", QueueDiesel: 100, ReportedAt: at(1, 10)},
	}

	d := Compute(rows, nil, nil)
	assert.Equal(t, 57.5, d.AvgQueueProv)
}

func TestCompute_AveragesRoundedToOneDecimal(t *testing.T) {
	rows := []models.FuelReading{
		{ID: 1, StationCode: "E1", Province: "A", QueueDiesel: 1, ReportedAt: at(1, 10)},
		{ID: 2, StationCode: "E2", Province: "A", QueueDiesel: 1, ReportedAt: at(1, 10)},
		{ID: 3, StationCode: "E3", Province: "A", QueueDiesel: 2, ReportedAt: at(1, 10)},
	}

	d := Compute(rows, nil, nil)
	assert.Equal(t, 1.3, d.AvgQueueCity) // 4/3 rounded
	assert.Equal(t, 1.3, d.AvgQueueProv)
}

func TestCompute_TopRankingsTruncatedAndStable(t *testing.T) {
	rows := make([]models.FuelReading, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, models.FuelReading{
			ID:           uint(i + 1),
			StationCode:  fmt.Sprintf("E%02d", i+1),
			BusinessName: fmt.Sprintf("Estacion %02d", i+1),
			DoDoPlus:     1000, // all tied, insertion order must hold
			ReportedAt:   at(1, 10),
		})
	}

	d := Compute(rows, nil, nil)

	top := d.TopByProduct["total"]
	require.Len(t, top, 15)
	assert.Equal(t, "Estacion 01", top[0].Name)
	assert.Equal(t, "Estacion 15", top[14].Name)
	assert.Equal(t, 1000, top[0].Volume)
}

func TestCompute_TopByGroupRanksIndependently(t *testing.T) {
	rows := []models.FuelReading{
		{ID: 1, StationCode: "E1", BusinessName: "Diesel Fuerte", DoDoPlus: 9000, GeGePlus: 10, ReportedAt: at(1, 10)},
		{ID: 2, StationCode: "E2", BusinessName: "Gasolina Fuerte", GeGePlus: 8000, DoDoPlus: 5, ReportedAt: at(1, 10)},
	}

	d := Compute(rows, nil, nil)

	assert.Equal(t, "Diesel Fuerte", d.TopByGroup["diesel"][0].Name)
	assert.Equal(t, 9000, d.TopByGroup["diesel"][0].Volume)
	assert.Equal(t, "Gasolina Fuerte", d.TopByGroup["gasolina"][0].Name)
	assert.Equal(t, 8000, d.TopByGroup["gasolina"][0].Volume)
}

func TestCompute_RecentTrendIsNewestTailOldestFirst(t *testing.T) {
	rows := make([]models.FuelReading, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, models.FuelReading{
			ID:          uint(i + 1),
			StationCode: fmt.Sprintf("E%02d", i+1),
			DoDoPlus:    (i + 1) * 10,
			ReportedAt:  at(1, i), // hour encodes recency
		})
	}

	d := Compute(rows, nil, nil)

	require.Len(t, d.RecentTrend, 10)
	// The two oldest readings fall off; the rest plot chronologically.
	assert.Equal(t, "03-01 02:00", d.RecentTrend[0].Label)
	assert.Equal(t, "03-01 11:00", d.RecentTrend[9].Label)
	assert.Equal(t, 30, d.RecentTrend[0].Diesel)
	assert.Equal(t, 120, d.RecentTrend[9].Diesel)
}
