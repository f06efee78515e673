package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFuelReading_VolumeSums(t *testing.T) {
	r := FuelReading{
		DoDoPlus:  1200,
		DoUlsPlus: 800,
		GeGePlus:  500,
		GpPlus:    300,
		GpUltra:   100,
	}

	assert.Equal(t, 2900, r.TotalVolume())
	assert.Equal(t, 2000, r.DieselVolume())
	assert.Equal(t, 900, r.GasolineVolume())
	// The two groups always partition the total.
	assert.Equal(t, r.TotalVolume(), r.DieselVolume()+r.GasolineVolume())
}

func TestFuelReading_QueueTotal(t *testing.T) {
	r := FuelReading{QueueDiesel: 7, QueueGasoline: 3}
	assert.Equal(t, 10, r.QueueTotal())
}

func TestFuelReading_Tier_Boundaries(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{2999, TierLow},
		{3000, TierMedium},
		{6999, TierMedium},
		{7000, TierMedium},
		{7001, TierHigh},
		{0, TierLow},
	}
	for _, tc := range cases {
		r := FuelReading{DoDoPlus: tc.total}
		assert.Equalf(t, tc.want, r.Tier(), "total=%d", tc.total)
	}
}

func TestFuelReading_ToSnapshot(t *testing.T) {
	reported := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	r := FuelReading{
		ID:          42,
		StationCode: "EST-001",
		DoDoPlus:    5000,
		GpPlus:      2500,
		ReportedAt:  JSONTime(reported),
	}

	s := r.ToSnapshot()
	assert.Equal(t, uint(42), s.ID)
	assert.Equal(t, 7500, s.TotalVolume)
	assert.Equal(t, TierHigh, s.Tier)
	assert.Equal(t, "2024-03-15 08:30:00", s.ReportedAt)
}
