package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *FuelStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FuelReading{}))
	return NewFuelStore(db)
}

func reading(code, funcionario string, at time.Time) *FuelReading {
	return &FuelReading{
		StationCode: code,
		Funcionario: funcionario,
		ReportedAt:  JSONTime(at),
	}
}

func TestFuelStore_Append_RequiresIdentifyingFields(t *testing.T) {
	store := setupStore(t)
	now := time.Now().UTC()

	err := store.Append(reading("", "Juan Perez", now))
	assert.ErrorIs(t, err, ErrValidation)

	err = store.Append(reading("E1", "", now))
	assert.ErrorIs(t, err, ErrValidation)

	assert.NoError(t, store.Append(reading("E1", "Juan Perez", now)))
}

func TestFuelStore_Append_DefaultsTimestampToNow(t *testing.T) {
	store := setupStore(t)

	r := &FuelReading{StationCode: "E1", Funcionario: "Juan Perez"}
	require.NoError(t, store.Append(r))

	assert.WithinDuration(t, time.Now().UTC(), time.Time(r.ReportedAt), 5*time.Second)
}

func TestFuelStore_QueryWindow_InclusiveBounds(t *testing.T) {
	store := setupStore(t)
	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{day1, day2, day3} {
		require.NoError(t, store.Append(reading("E1", "Juan Perez", at)))
	}

	rows, err := store.QueryWindow(&day1, &day2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Unbounded on both sides returns full history.
	rows, err = store.QueryWindow(nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// Open start bound.
	rows, err = store.QueryWindow(nil, &day1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFuelStore_QueryWindow_OrderedByTimestampThenID(t *testing.T) {
	store := setupStore(t)
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	first := reading("E1", "Juan Perez", at)
	second := reading("E2", "Juan Perez", at)
	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	rows, err := store.QueryWindow(nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Less(t, rows[0].ID, rows[1].ID)
}

func TestFuelStore_LatestFor(t *testing.T) {
	store := setupStore(t)
	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	old := reading("E1", "Juan Perez", day1)
	old.DoDoPlus = 100
	newer := reading("E1", "Juan Perez", day2)
	newer.DoDoPlus = 50
	require.NoError(t, store.Append(old))
	require.NoError(t, store.Append(newer))
	require.NoError(t, store.Append(reading("E1", "Maria Lopez", day2.Add(time.Hour))))

	got, err := store.LatestFor("E1", "Juan Perez")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 50, got.DoDoPlus)

	got, err = store.LatestFor("E9", "Juan Perez")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFuelStore_AppendBatch_NoPartialWrites(t *testing.T) {
	store := setupStore(t)
	now := time.Now().UTC()

	batch := []*FuelReading{
		reading("E1", "Juan Perez", now),
		reading("", "Juan Perez", now), // invalid row poisons the whole batch
	}
	err := store.AppendBatch(batch)
	assert.ErrorIs(t, err, ErrValidation)

	rows, err := store.QueryWindow(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFuelStore_AppendBatch_EmptyIsNoop(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.AppendBatch(nil))
}
