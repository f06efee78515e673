package models

import "time"

// Volume tier labels as published in dashboards and CSV exports.
const (
	TierHigh   = "ALTO"
	TierMedium = "MEDIO"
	TierLow    = "BAJO"
)

// Record types. Bulk-imported rows are tagged "inicial", per-station
// submissions "actualizacion". The tag is informational only and is never
// used in query logic.
const (
	RecordTypeInitial = "inicial"
	RecordTypeUpdate  = "actualizacion"
)

// FuelReading is one volume submission for a fuel station. Rows are
// append-only: a station update inserts a new reading, it never mutates or
// deletes history. The auto-increment ID doubles as the insertion sequence
// used to break timestamp ties deterministically.
type FuelReading struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StationCode  string `gorm:"size:50;index;not null" json:"codigo"`
	BusinessName string `gorm:"size:200" json:"razonSocial"`
	Zone         string `gorm:"size:100" json:"zona"`
	Province     string `gorm:"size:100;index" json:"provincia"`
	Municipality string `gorm:"size:100" json:"municipio"`

	// Liter volumes for the five ANH products.
	DoDoPlus  int `gorm:"default:0" json:"doDoPlus"`
	DoUlsPlus int `gorm:"default:0" json:"doUlsPlus"`
	GeGePlus  int `gorm:"default:0" json:"geGePlus"`
	GpPlus    int `gorm:"default:0" json:"gpPlus"`
	GpUltra   int `gorm:"column:gp_ultra_100;default:0" json:"gpUltra100"`

	// Observed vehicle queues at the diesel and gasoline pumps.
	QueueDiesel   int `gorm:"default:0" json:"filasDoDoPlus"`
	QueueGasoline int `gorm:"default:0" json:"filasGeGePlus"`

	Funcionario string   `gorm:"size:100;index" json:"funcionario"`
	ReportedAt  JSONTime `gorm:"index;not null" json:"fechaHora"`
	UpdatedBy   string   `gorm:"size:100" json:"usuarioActualizacion"`
	RecordType  string   `gorm:"size:20;default:actualizacion" json:"tipoRegistro"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (FuelReading) TableName() string {
	return "fuel_readings"
}

// TotalVolume is the sum of all five product volumes.
func (f *FuelReading) TotalVolume() int {
	return f.DoDoPlus + f.DoUlsPlus + f.GeGePlus + f.GpPlus + f.GpUltra
}

// DieselVolume sums the diesel family (DO/DO+ and DO ULS+).
func (f *FuelReading) DieselVolume() int {
	return f.DoDoPlus + f.DoUlsPlus
}

// GasolineVolume sums the gasoline family (GE/GE+, GP+ and GP Ultra 100).
func (f *FuelReading) GasolineVolume() int {
	return f.GeGePlus + f.GpPlus + f.GpUltra
}

// QueueTotal is the combined queue count used by the dashboard averages.
func (f *FuelReading) QueueTotal() int {
	return f.QueueDiesel + f.QueueGasoline
}

// Tier classifies the total volume: ALTO strictly above 7000 liters,
// MEDIO for [3000, 7000], BAJO below 3000.
func (f *FuelReading) Tier() string {
	total := f.TotalVolume()
	switch {
	case total > 7000:
		return TierHigh
	case total >= 3000:
		return TierMedium
	default:
		return TierLow
	}
}

// Snapshot is the API representation of a reading plus its derived fields.
type Snapshot struct {
	ID            uint   `json:"id"`
	StationCode   string `json:"codigo"`
	BusinessName  string `json:"razonSocial"`
	Zone          string `json:"zona"`
	Province      string `json:"provincia"`
	Municipality  string `json:"municipio"`
	DoDoPlus      int    `json:"doDoPlus"`
	DoUlsPlus     int    `json:"doUlsPlus"`
	GeGePlus      int    `json:"geGePlus"`
	GpPlus        int    `json:"gpPlus"`
	GpUltra       int    `json:"gpUltra100"`
	QueueDiesel   int    `json:"filasDoDoPlus"`
	QueueGasoline int    `json:"filasGeGePlus"`
	TotalVolume   int    `json:"volumenTotal"`
	DieselVolume  int    `json:"volumenDiesel"`
	GasolineVol   int    `json:"volumenGasolina"`
	Tier          string `json:"estadoVolumen"`
	Funcionario   string `json:"funcionario"`
	ReportedAt    string `json:"fechaHora"`
	UpdatedBy     string `json:"usuarioActualizacion"`
}

// ToSnapshot flattens the reading with its derived fields for API output.
// The timestamp uses the same layout the CSV export publishes.
func (f *FuelReading) ToSnapshot() Snapshot {
	return Snapshot{
		ID:            f.ID,
		StationCode:   f.StationCode,
		BusinessName:  f.BusinessName,
		Zone:          f.Zone,
		Province:      f.Province,
		Municipality:  f.Municipality,
		DoDoPlus:      f.DoDoPlus,
		DoUlsPlus:     f.DoUlsPlus,
		GeGePlus:      f.GeGePlus,
		GpPlus:        f.GpPlus,
		GpUltra:       f.GpUltra,
		QueueDiesel:   f.QueueDiesel,
		QueueGasoline: f.QueueGasoline,
		TotalVolume:   f.TotalVolume(),
		DieselVolume:  f.DieselVolume(),
		GasolineVol:   f.GasolineVolume(),
		Tier:          f.Tier(),
		Funcionario:   f.Funcionario,
		ReportedAt:    time.Time(f.ReportedAt).Format("2006-01-02 15:04:05"),
		UpdatedBy:     f.UpdatedBy,
	}
}
