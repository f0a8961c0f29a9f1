package model

import "time"

// Reference categories a Directory row can belong to.
const (
	CategoryMachineModel      = "Machine model"
	CategoryEngineModel       = "Engine model"
	CategoryTransmissionModel = "Transmission model"
	CategoryDriveAxleModel    = "Drive axle model"
	CategorySteerAxleModel    = "Steer axle model"
	CategoryMaintenanceType   = "Maintenance type"
	CategoryFailureUnit       = "Failure unit"
	CategoryRecoveryMethod    = "Recovery method"
	CategoryServiceCompany    = "Service company"
)

// SelfServiceCompany names the service company used when a client performs
// maintenance on its own.
const SelfServiceCompany = "self-performed"

// Directory is one row of reference data, e.g. an engine model or a
// failure unit. Category is an open string; the constants above are the
// ones the application references.
type Directory struct {
	ID          int64     `gorm:"primaryKey"`
	Category    string    `gorm:"size:100;not null;index:idx_directories_category_name,priority:1"`
	Name        string    `gorm:"size:100;not null;index:idx_directories_category_name,priority:2"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (Directory) TableName() string { return "directories" }
