package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrValidation marks rejected writes: a reading missing one of its
// required identifying fields never reaches the database.
var ErrValidation = errors.New("validation error")

// FuelStore is the append-only log of fuel readings. History is never
// updated or deleted through it; station updates always insert new rows
// and the latest row per station is resolved at read time.
type FuelStore struct {
	db *gorm.DB
}

func NewFuelStore(db *gorm.DB) *FuelStore {
	return &FuelStore{db: db}
}

func (s *FuelStore) validate(r *FuelReading) error {
	if r.StationCode == "" {
		return fmt.Errorf("%w: station code is required", ErrValidation)
	}
	if r.Funcionario == "" {
		return fmt.Errorf("%w: funcionario is required", ErrValidation)
	}
	return nil
}

// Append inserts one reading. The zero timestamp defaults to now.
func (s *FuelStore) Append(r *FuelReading) error {
	if err := s.validate(r); err != nil {
		return err
	}
	if time.Time(r.ReportedAt).IsZero() {
		r.ReportedAt = JSONTime(time.Now().UTC())
	}
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("fuel store: append: %w", err)
	}
	return nil
}

// AppendBatch inserts a set of readings inside a single transaction, so a
// failed bulk import leaves no partial writes behind.
func (s *FuelStore) AppendBatch(readings []*FuelReading) error {
	if len(readings) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range readings {
			if err := s.validate(r); err != nil {
				return err
			}
			if time.Time(r.ReportedAt).IsZero() {
				r.ReportedAt = JSONTime(time.Now().UTC())
			}
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("fuel store: batch append: %w", err)
			}
		}
		return nil
	})
}

// QueryWindow returns every reading with reported_at in [start, end];
// either bound may be nil for an unbounded side. Rows come back in
// insertion order within equal timestamps so downstream tie-breaking
// stays deterministic.
func (s *FuelStore) QueryWindow(start, end *time.Time) ([]FuelReading, error) {
	q := s.db.Model(&FuelReading{})
	if start != nil {
		q = q.Where("reported_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("reported_at <= ?", *end)
	}
	var rows []FuelReading
	if err := q.Order("reported_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fuel store: query window: %w", err)
	}
	return rows, nil
}

// LatestFor returns the most recent reading a funcionario made for one
// station, or nil when there is none. Station updates use it to carry
// descriptive fields forward.
func (s *FuelStore) LatestFor(stationCode, funcionario string) (*FuelReading, error) {
	var row FuelReading
	err := s.db.
		Where("station_code = ? AND funcionario = ?", stationCode, funcionario).
		Order("reported_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fuel store: latest for %s: %w", stationCode, err)
	}
	return &row, nil
}
